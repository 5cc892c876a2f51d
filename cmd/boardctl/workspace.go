package main

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspaces",
}

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Manage canvas nodes",
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Generate and list strategic summaries",
}

func init() {
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceDeleteCmd)
	nodeCmd.AddCommand(nodeListCmd)
	nodeCmd.AddCommand(nodeAddCmd)
	summaryCmd.AddCommand(summaryGenerateCmd)
	summaryCmd.AddCommand(summaryListCmd)

	workspaceCreateCmd.Flags().String("description", "", "workspace description")
	nodeAddCmd.Flags().String("content", "", "node body text")
}

// workspaceView matches internal/store Workspace fields used for display.
type workspaceView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type nodeView struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

type summaryView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
	NodeCount int       `json:"node_count"`
	CreatedAt time.Time `json:"created_at"`
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		var workspaces []workspaceView
		if err := apiRequest(http.MethodGet, "/api/v1/workspaces", nil, &workspaces); err != nil {
			return err
		}
		if len(workspaces) == 0 {
			fmt.Println("No workspaces.")
			return nil
		}
		for _, ws := range workspaces {
			fmt.Printf("%s  %s  (updated %s)\n", ws.ID, ws.Name, ws.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		var ws workspaceView
		err := apiRequest(http.MethodPost, "/api/v1/workspaces",
			map[string]string{"name": args[0], "description": description}, &ws)
		if err != nil {
			return err
		}
		fmt.Printf("Created workspace %s (%s)\n", ws.Name, ws.ID)
		return nil
	},
}

var workspaceDeleteCmd = &cobra.Command{
	Use:   "delete <workspace-id>",
	Short: "Delete a workspace and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiRequest(http.MethodDelete, "/api/v1/workspaces/"+url.PathEscape(args[0]), nil, nil); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var nodeListCmd = &cobra.Command{
	Use:   "list <workspace-id>",
	Short: "List canvas nodes in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var nodes []nodeView
		path := "/api/v1/workspaces/" + url.PathEscape(args[0]) + "/nodes"
		if err := apiRequest(http.MethodGet, path, nil, &nodes); err != nil {
			return err
		}
		if len(nodes) == 0 {
			fmt.Println("Canvas is empty.")
			return nil
		}
		for _, n := range nodes {
			fmt.Printf("%s  [%s] %s\n", n.ID, n.Kind, n.Title)
		}
		return nil
	},
}

var nodeAddCmd = &cobra.Command{
	Use:   "add <workspace-id> <kind> <title>",
	Short: "Add a canvas node",
	Long: `Add a node to the workspace canvas.

Kind is one of: idea, question, insight, decision, risk.

Examples:
  boardctl node add ws-123 idea "Expand to EMEA"
  boardctl node add ws-123 risk "Churn in self-serve" --content "Q2 cohort retention dropped 8%"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _ := cmd.Flags().GetString("content")
		var node nodeView
		path := "/api/v1/workspaces/" + url.PathEscape(args[0]) + "/nodes"
		err := apiRequest(http.MethodPost, path,
			map[string]string{"kind": args[1], "title": args[2], "content": content}, &node)
		if err != nil {
			return err
		}
		fmt.Printf("Added node %s\n", node.ID)
		return nil
	},
}

var summaryGenerateCmd = &cobra.Command{
	Use:   "generate <workspace-id>",
	Short: "Generate a strategic summary of the canvas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result struct {
			Summary summaryView `json:"summary"`
		}
		path := "/api/v1/workspaces/" + url.PathEscape(args[0]) + "/summaries"
		if err := apiRequest(http.MethodPost, path, nil, &result); err != nil {
			return err
		}
		fmt.Printf("Summary (%s, %d nodes):\n\n%s\n", result.Summary.Model, result.Summary.NodeCount, result.Summary.Content)
		return nil
	},
}

var summaryListCmd = &cobra.Command{
	Use:   "list <workspace-id>",
	Short: "List past summaries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var summaries []summaryView
		path := "/api/v1/workspaces/" + url.PathEscape(args[0]) + "/summaries"
		if err := apiRequest(http.MethodGet, path, nil, &summaries); err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No summaries yet.")
			return nil
		}
		for _, s := range summaries {
			fmt.Printf("%s  %s  (%d nodes)\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.NodeCount)
		}
		return nil
	},
}
