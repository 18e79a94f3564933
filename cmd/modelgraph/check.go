package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/modelgraph/internal/entity"
	"github.com/matsen/modelgraph/internal/graph"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify data-source integrity",
	Long: `Verify the configured data source: invalid entity or relationship rows,
duplicate entity names, and relationships naming unknown entities.

When the data is clean the graph shape is reported: node, edge and root
counts, cycles, and depth. Exits with code 3 when issues are found.`,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status        string       `json:"status"`
	Entities      int          `json:"entities"`
	Relationships int          `json:"relationships"`
	Issues        []CheckIssue `json:"issues"`
	Stats         *graph.Stats `json:"stats,omitempty"`
}

// CheckIssue represents a single issue found during check.
type CheckIssue struct {
	Type   string `json:"type"`
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Issue types reported by check.
const (
	IssueInvalidEntity       = "invalid_entity"
	IssueDuplicateEntity     = "duplicate_entity"
	IssueInvalidRelationship = "invalid_relationship"
	IssueMissingEndpoint     = "missing_endpoint"
	IssueEmptyTable          = "empty_table"
)

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	src, closeSource := mustOpenSource(cfg)
	defer closeSource()

	entities, err := src.Entities()
	if err != nil {
		exitWithError(ExitDataError, "reading entities: %v", err)
	}
	rels, err := src.Relationships()
	if err != nil {
		exitWithError(ExitDataError, "reading relationships: %v", err)
	}

	result := CheckResult{
		Status:        "ok",
		Entities:      len(entities),
		Relationships: len(rels),
		Issues:        collectIssues(entities, rels),
	}

	if len(result.Issues) == 0 {
		if g, err := graph.Build(entities, rels); err == nil {
			stats := g.Stats()
			result.Stats = &stats
		}
	}

	if len(result.Issues) > 0 {
		result.Status = "issues_found"
	}

	emit(result, func() { printCheckHuman(result) })

	if len(result.Issues) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}

// collectIssues reports every problem Build would stop at, not only the first.
func collectIssues(entities []entity.Entity, rels []entity.Relationship) []CheckIssue {
	issues := []CheckIssue{}

	if len(entities) == 0 {
		issues = append(issues, CheckIssue{Type: IssueEmptyTable, Index: -1, Reason: graph.ErrNoEntities.Error()})
	}

	known := make(map[string]bool, len(entities))
	for i := range entities {
		e := &entities[i]
		if err := e.Validate(); err != nil {
			issues = append(issues, CheckIssue{Type: IssueInvalidEntity, Index: i, Name: e.Name, Reason: err.Error()})
		}
		if e.Name == "" {
			continue
		}
		if known[e.Name] {
			issues = append(issues, CheckIssue{Type: IssueDuplicateEntity, Index: i, Name: e.Name})
		}
		known[e.Name] = true
	}

	for i := range rels {
		r := &rels[i]
		if err := r.Validate(); err != nil {
			issues = append(issues, CheckIssue{Type: IssueInvalidRelationship, Index: i, Source: r.Source, Target: r.Target, Reason: err.Error()})
		}
		if r.Source != "" && !known[r.Source] {
			issues = append(issues, CheckIssue{Type: IssueMissingEndpoint, Index: i, Name: r.Source, Source: r.Source, Target: r.Target, Reason: "unknown source entity"})
		}
		if r.Target != "" && !known[r.Target] {
			issues = append(issues, CheckIssue{Type: IssueMissingEndpoint, Index: i, Name: r.Target, Source: r.Source, Target: r.Target, Reason: "unknown target entity"})
		}
	}

	return issues
}

func printCheckHuman(result CheckResult) {
	fmt.Printf("Checked %d entities and %d relationships\n", result.Entities, result.Relationships)
	if len(result.Issues) == 0 && result.Stats != nil {
		s := result.Stats
		fmt.Printf("Graph: %d nodes, %d edges, %d roots, depth %d\n", s.Nodes, s.Edges, len(s.Roots), s.Depth)
		if !s.Acyclic {
			fmt.Printf("Cycles: %d\n", len(s.Cycles))
			for _, c := range s.Cycles {
				fmt.Printf("  %v\n", c)
			}
		}
		fmt.Println("No issues found")
		return
	}

	fmt.Printf("Found %d issues:\n", len(result.Issues))
	for _, issue := range result.Issues {
		switch issue.Type {
		case IssueMissingEndpoint:
			fmt.Printf("  relationship %d (%s -> %s): %s %q\n", issue.Index, issue.Source, issue.Target, issue.Reason, issue.Name)
		case IssueInvalidRelationship:
			fmt.Printf("  relationship %d (%s -> %s): %s\n", issue.Index, issue.Source, issue.Target, issue.Reason)
		case IssueEmptyTable:
			fmt.Printf("  %s\n", issue.Reason)
		case IssueDuplicateEntity:
			fmt.Printf("  entity %d: duplicate name %q\n", issue.Index, issue.Name)
		default:
			fmt.Printf("  entity %d (%q): %s\n", issue.Index, issue.Name, issue.Reason)
		}
	}
}
