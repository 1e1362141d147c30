package cli

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/sqlcanvas/sqlcanvas/server/engine"
	"github.com/sqlcanvas/sqlcanvas/server/metadata"
	"github.com/sqlcanvas/sqlcanvas/server/storage"
	"github.com/sqlcanvas/sqlcanvas/server/types"
)

var sqlCmd = &cobra.Command{
	Use:   "sql [query]",
	Short: "Execute a SQL statement against a user's database",
	Long: `Execute one SQL statement directly against a user's database, without
going through the HTTP API. Useful for local inspection and seeding.

Examples:
  sqlcanvas sql "SELECT * FROM employees"
  sqlcanvas sql --user 2 "CREATE TABLE notes (id INTEGER PRIMARY KEY, text TEXT)"`,
	Args: cobra.ExactArgs(1),
	RunE: runSQL,
}

type sqlOptions struct {
	userID  int64
	maxRows int
	timing  bool
}

var sqlOpts = &sqlOptions{}

func init() {
	rootCmd.AddCommand(sqlCmd)

	sqlCmd.Flags().Int64Var(&sqlOpts.userID, "user", 1, "user id whose database to query")
	sqlCmd.Flags().IntVar(&sqlOpts.maxRows, "max-rows", 1000, "maximum number of rows to display")
	sqlCmd.Flags().BoolVar(&sqlOpts.timing, "timing", true, "show query execution time")
}

func runSQL(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	meta, err := metadata.NewStore(cfg.GetMetadataPath())
	if err != nil {
		return err
	}
	defer meta.Close()

	backend, err := storage.NewBackend(cfg)
	if err != nil {
		return err
	}

	eng := engine.New(backend, meta, zerolog.Nop())
	qctx := types.QueryContext{UserID: sqlOpts.userID, Query: args[0], ClientAddr: "cli"}

	start := time.Now()
	result := eng.Execute(cmd.Context(), qctx)
	eng.LogResult(cmd.Context(), qctx, result)

	if !result.Success {
		pterm.Error.Println(result.Error)
		return nil
	}

	switch {
	case len(result.Columns) > 0:
		renderRows(result)
	case result.Message != "":
		pterm.Success.Println(result.Message)
	default:
		pterm.Success.Printf("%d row(s) affected\n", result.AffectedRows)
	}

	if sqlOpts.timing {
		fmt.Printf("Time: %v\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func renderRows(result *engine.QueryResult) {
	table := pterm.TableData{result.Columns}
	for i, row := range result.Rows {
		if i >= sqlOpts.maxRows {
			break
		}
		line := make([]string, len(result.Columns))
		for j, col := range result.Columns {
			line[j] = fmt.Sprintf("%v", row[col])
		}
		table = append(table, line)
	}

	pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	fmt.Printf("%d row(s)\n", result.ResultCount)
}
