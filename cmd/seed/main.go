// Command seed fills the configured store with a small notebook tree for
// one user, through the same services the API uses.
package main

import (
	"context"
	"flag"
	"os"

	"notebook-tree-be/internal/bootstrap"
	"notebook-tree-be/internal/config"
	"notebook-tree-be/internal/dto"
	"notebook-tree-be/internal/pkg/logger"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type seedNode struct {
	name     string
	notes    []string
	children []seedNode
}

var sample = []seedNode{
	{
		name:  "Work",
		notes: []string{"Weekly goals"},
		children: []seedNode{
			{name: "Meetings", notes: []string{"Standup", "Retro"}},
			{name: "Projects", children: []seedNode{{name: "Archive"}}},
		},
	},
	{name: "Personal", notes: []string{"Groceries"}},
}

func main() {
	rawUser := flag.String("user", "", "owner of the seeded notebooks")
	flag.Parse()

	userId, err := uuid.Parse(*rawUser)
	if err != nil {
		color.Red("Error: -user must be a uuid")
		os.Exit(1)
	}

	cfg := config.Load()
	sysLogger := logger.NewNopLogger()
	uowFactory, err := bootstrap.NewRepositoryFactory(cfg, sysLogger)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	container := bootstrap.NewContainer(uowFactory, cfg, sysLogger)
	defer container.Close()

	ctx := context.Background()
	for _, node := range sample {
		if err := seed(ctx, container, userId, nil, node, 0); err != nil {
			color.Red("Seeding failed: %v", err)
			os.Exit(1)
		}
	}
	color.Green("Seeded notebooks for %s", userId)
}

func seed(ctx context.Context, c *bootstrap.Container, userId uuid.UUID, parent *uuid.UUID, node seedNode, depth int) error {
	created, err := c.NotebookService.Create(ctx, userId, &dto.CreateNotebookRequest{ParentId: parent})
	if err != nil {
		return err
	}
	if _, err := c.NotebookService.UpdateTitle(ctx, userId, &dto.UpdateNotebookTitleRequest{Id: created.Id, Title: node.name}); err != nil {
		return err
	}
	for _, title := range node.notes {
		if _, err := c.NoteService.Create(ctx, userId, &dto.CreateNoteRequest{NotebookId: created.Id, Title: title}); err != nil {
			return err
		}
	}
	color.Yellow("%*s- %s", depth*2, "", node.name)

	for _, child := range node.children {
		if err := seed(ctx, c, userId, &created.Id, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
