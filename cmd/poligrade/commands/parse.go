package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gzambran/poligrade/services/positionparser"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var parsePolitician *string
var parseSelect *[]string
var parseDrop *[]int
var parseUseSuggested *bool
var parseCommit *bool

func init() {
	parsePolitician = parseCmd.Flags().String("politician", "", "The id of the politician to add positions to.")
	parseSelect = parseCmd.Flags().StringArray("select", nil, "Category assignments, e.g. --select 0=health-care.")
	parseDrop = parseCmd.Flags().IntSlice("drop", nil, "Indices of extracted positions to leave out.")
	parseUseSuggested = parseCmd.Flags().Bool("use-suggested", false, "Assign every position its backend-suggested category.")
	parseCommit = parseCmd.Flags().Bool("commit", false, "Merge the selected positions into the politician's profile.")
	rootCmd.AddCommand(parseCmd)
}

func applySelection(session *positionparser.Session) error {
	if *parseUseSuggested {
		for i, position := range session.Result.Positions {
			session.Selection.SetCategory(i, position.Suggested)
		}
	}
	for _, pair := range *parseSelect {
		index, value, found := strings.Cut(pair, "=")
		if !found {
			return fmt.Errorf("invalid --select %q, expected <index>=<category>", pair)
		}
		i, err := strconv.Atoi(index)
		if err != nil || i < 0 || i >= session.Selection.Len() {
			return fmt.Errorf("invalid --select index %q", index)
		}
		category, err := positionparser.ParseCategory(value)
		if err != nil {
			return err
		}
		session.Selection.SetCategory(i, category)
	}
	for _, i := range *parseDrop {
		if session.Selection.Selected(i) {
			session.Selection.Toggle(i)
		}
	}
	return nil
}

func renderPositions(session *positionparser.Session) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Selected", "Category", "Stance", "Sources", "Note"})

	for i, position := range session.Result.Positions {
		selected := ""
		if session.Selection.Selected(i) {
			selected = "x"
		}
		t.AppendRow(table.Row{
			i,
			selected,
			session.Selection.CategoryOf(i).Label(),
			position.Stance,
			strings.Join(position.SourceURLs, "\n"),
			position.Note,
		})
	}
	t.Render()
}

var parseCmd = &cobra.Command{
	Use:   "parse <url> [url...]",
	Short: "Submit candidate-issue urls to the parser backend and review the extracted positions.",
	Long: `Submits up to 4 urls to the position parser backend, streams progress
while the analysis runs, and renders the extracted policy positions.

With --commit, the selected positions are merged into the chosen
politician's profile through the server's admin API. Existing stances
are never dropped or reordered; new ones append after them.`,
	Args: cobra.RangeArgs(1, positionparser.MaxURLs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := readConfig()
		ctx := cmd.Context()

		client := positionparser.NewClient(positionparser.ClientOptions{
			BaseUrl: cfg.Parser.BaseUrl,
			ApiKey:  cfg.Parser.ApiKey,
		})

		session, err := client.Parse(ctx, args, func(message string) {
			slog.Info(message)
		})
		if err != nil {
			return err
		}

		for _, warning := range session.Warnings {
			slog.Warn(warning)
		}
		if session.Result == nil {
			return fmt.Errorf("the stream ended without a result")
		}
		if session.Result.PoliticianName != "" {
			slog.Info("extracted positions", "politician", session.Result.PoliticianName)
		}

		err = applySelection(session)
		if err != nil {
			return err
		}
		renderPositions(session)

		if !*parseCommit {
			return nil
		}

		facade := positionparser.NewHTTPFacade(positionparser.HTTPFacadeOptions{
			BaseUrl:     cfg.Server.BaseUrl,
			AccessToken: cfg.Server.AccessToken,
		})

		destination := *parsePolitician
		if destination == "" {
			candidates, err := facade.ListCandidates(ctx, "")
			if err != nil {
				return err
			}
			suggested, ok := positionparser.SuggestDestination(session.Result.PoliticianName, candidates)
			if ok {
				return fmt.Errorf(
					"no --politician given; did you mean %q? (--politician %s)",
					suggested.Name, suggested.ID,
				)
			}
			return fmt.Errorf("no --politician given")
		}

		if message := session.Selection.ValidationMessage(true); message != "" {
			return fmt.Errorf("%s", message)
		}

		outcome, err := positionparser.Merge(ctx, facade, destination, session.Result, session.Selection)
		if err != nil {
			return err
		}
		slog.Info("positions added",
			"count", outcome.Added,
			"politician", outcome.Record.Name,
		)
		return nil
	},
}
