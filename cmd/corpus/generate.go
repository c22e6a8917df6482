package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"flowdex/backend/internal/catalog"
	"flowdex/backend/pkg/models"
)

// sampleEnvelope mirrors the scraper output shape.
type sampleEnvelope struct {
	Workflows []models.Workflow `json:"workflows"`
	Metadata  struct {
		FetchedAt string `json:"fetchedAt"`
		Total     int    `json:"total"`
		Source    string `json:"source"`
	} `json:"metadata"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")

	workflows := sampleWorkflows()
	for i := 0; i < count; i++ {
		workflows = append(workflows, syntheticWorkflow(len(workflows)+1))
	}

	env := sampleEnvelope{Workflows: workflows}
	env.Metadata.FetchedAt = time.Now().UTC().Format(time.RFC3339)
	env.Metadata.Total = len(workflows)
	env.Metadata.Source = "corpus generate"

	if err := os.MkdirAll(filepath.Join(dataDir, catalog.DefinitionsDir), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	summaryPath := filepath.Join(dataDir, catalog.SummaryFile)
	if err := os.WriteFile(summaryPath, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	for id, def := range sampleDefinitions() {
		blob, err := json.MarshalIndent(def, "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(dataDir, catalog.DefinitionsDir, id+".json")
		if err := os.WriteFile(path, blob, 0o644); err != nil {
			return fmt.Errorf("write definition %s: %w", id, err)
		}
	}

	fmt.Printf("Wrote %d workflows to %s\n", len(workflows), summaryPath)
	return nil
}

func sampleWorkflows() []models.Workflow {
	return []models.Workflow{
		{
			ID:           "1",
			Name:         "Slack to Notion sync",
			Description:  "Automatically sync important Slack channel messages into a Notion database for team knowledge management",
			Categories:   []string{"automation", "productivity", "collaboration"},
			Integrations: []string{"n8n-nodes-base.slack", "n8n-nodes-base.notion"},
			Difficulty:   models.DifficultyBeginner,
			Author:       "n8n Team",
			Stats:        &models.WorkflowStats{Views: 1250, Downloads: 342},
		},
		{
			ID:           "2",
			Name:         "Gmail smart labeling",
			Description:  "Use AI to classify and label incoming Gmail messages automatically",
			Categories:   []string{"automation", "email", "ai"},
			Integrations: []string{"n8n-nodes-base.gmail", "n8n-nodes-base.openAi"},
			Difficulty:   models.DifficultyIntermediate,
			Author:       "Community",
			Stats:        &models.WorkflowStats{Views: 890, Downloads: 156},
		},
		{
			ID:           "3",
			Name:         "GitHub PR notifications",
			Description:  "Send a chat notification whenever a repository receives a new pull request",
			Categories:   []string{"automation", "development", "notification"},
			Integrations: []string{"n8n-nodes-base.github", "n8n-nodes-base.slack"},
			Difficulty:   models.DifficultyBeginner,
			Stats:        &models.WorkflowStats{Views: 652, Downloads: 98},
		},
		{
			ID:           "4",
			Name:         "E-commerce order processing",
			Description:  "Fetch new orders, generate shipping documents and push tracking details to a spreadsheet",
			Categories:   []string{"ecommerce", "automation"},
			Integrations: []string{"n8n-nodes-base.shopify", "n8n-nodes-base.googleSheets", "n8n-nodes-base.telegram"},
			Difficulty:   models.DifficultyAdvanced,
			Stats:        &models.WorkflowStats{Views: 1100, Downloads: 234},
		},
		{
			ID:           "5",
			Name:         "Social media cross-posting",
			Description:  "Publish content to several social platforms from a single trigger",
			Categories:   []string{"social-media", "content", "marketing"},
			Integrations: []string{"n8n-nodes-base.twitter", "n8n-nodes-base.linkedIn", "n8n-nodes-base.facebook"},
			Difficulty:   models.DifficultyIntermediate,
			Stats:        &models.WorkflowStats{Views: 780, Downloads: 145},
		},
		{
			ID:           "6",
			Name:         "Database backup automation",
			Description:  "Back up a database on a schedule, upload the dump to cloud storage and report to Slack",
			Categories:   []string{"database", "backup", "devops"},
			Integrations: []string{"n8n-nodes-base.postgres", "n8n-nodes-base.awsS3", "n8n-nodes-base.slack"},
			Difficulty:   models.DifficultyAdvanced,
			Stats:        &models.WorkflowStats{Views: 450, Downloads: 87},
		},
	}
}

func syntheticWorkflow(n int) models.Workflow {
	return models.Workflow{
		ID:           fmt.Sprintf("%d", n),
		Name:         fmt.Sprintf("Synthetic workflow %d", n),
		Description:  "Generated record for load and pagination testing",
		Categories:   []string{"testing"},
		Integrations: []string{"n8n-nodes-base.noOp"},
	}
}

// sampleDefinitions returns definition blobs for a subset of the sample
// records; the rest deliberately have none so the degraded detail path gets
// exercised in development.
func sampleDefinitions() map[string]*models.WorkflowDefinition {
	return map[string]*models.WorkflowDefinition{
		"1": {
			Nodes: []models.GraphNode{
				{Name: "Slack Trigger", Type: "n8n-nodes-base.slackTrigger", Position: []float64{0, 0}},
				{Name: "Filter", Type: "n8n-nodes-base.filter", Position: []float64{220, 0}},
				{Name: "Notion", Type: "n8n-nodes-base.notion", Position: []float64{440, 0}},
				{Name: "Note", Type: "n8n-nodes-base.stickyNote", Position: []float64{220, -160}},
			},
			Connections: map[string]models.NodeOutputs{
				"Slack Trigger": {Slots: []models.OutputSlot{{
					Name:   "main",
					Groups: [][]models.ConnectionTarget{{{Node: "Filter", Type: "main", Index: 0}}},
				}}},
				"Filter": {Slots: []models.OutputSlot{{
					Name:   "main",
					Groups: [][]models.ConnectionTarget{{{Node: "Notion", Type: "main", Index: 0}}},
				}}},
			},
		},
		"3": {
			Nodes: []models.GraphNode{
				{Name: "GitHub Trigger", Type: "n8n-nodes-base.githubTrigger", Position: []float64{0, 0}},
				{Name: "Slack", Type: "n8n-nodes-base.slack", Position: []float64{260, 0}},
			},
			Connections: map[string]models.NodeOutputs{
				"GitHub Trigger": {Slots: []models.OutputSlot{{
					Name:   "main",
					Groups: [][]models.ConnectionTarget{{{Node: "Slack", Type: "main", Index: 0}}},
				}}},
			},
		},
	}
}
