// Package store provides relational persistence for boardroom data.
//
// The store is backed by an embedded SQLite database and holds users,
// workspaces, canvas nodes and edges, chat conversations and messages,
// uploaded document records, and generated strategy summaries. Workspace
// children are removed through cascading foreign keys when the workspace
// is deleted.
package store
