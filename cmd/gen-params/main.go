package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oneee-playground/crackdash/internal/api"
	conf "github.com/oneee-playground/crackdash/internal/config"
	"github.com/oneee-playground/crackdash/internal/session"
	"github.com/oneee-playground/crackdash/internal/session/storage"
	"github.com/oneee-playground/crackdash/internal/tool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// gen-params prints sample job parameters for a tool, one JSON object
// per line. The schema comes from a file or from the queue server.
func main() {
	var (
		num        int
		schemaPath string
		toolID     string
		validOnly  bool
	)

	app := kingpin.New(filepath.Base(os.Args[0]), "Generate sample job parameters from a tool schema.").UsageWriter(os.Stdout)
	app.HelpFlag.Short('h')
	app.Flag("n", "Number of parameter sets.").Short('n').Default("1").IntVar(&num)
	app.Flag("schema", "Schema file.").PlaceHolder("<filename>").ExistingFileVar(&schemaPath)
	app.Flag("tool", "Tool ID to fetch the schema for, using the stored session.").StringVar(&toolID)
	app.Flag("valid-only", "Drop sets the schema rejects.").BoolVar(&validOnly)

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if (schemaPath == "") == (toolID == "") {
		kingpin.Fatalf("Exactly one of --schema and --tool is required")
	}

	var (
		t   tool.Tool
		err error
	)
	if schemaPath != "" {
		t, err = toolFromFile(schemaPath)
	} else {
		t, err = toolFromServer(context.Background(), toolID)
	}
	if err != nil {
		kingpin.Fatalf("Failed to load schema: %v", err)
	}

	samples, err := tool.SampleParams(t, num)
	if err != nil {
		kingpin.Fatalf("Failed to generate params: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, params := range samples {
		if err := tool.ValidateParams(t, params); err != nil {
			if validOnly {
				continue
			}
			fmt.Fprintln(os.Stderr, err)
		}
		if err := enc.Encode(params); err != nil {
			kingpin.Fatalf("Failed to write params: %v", err)
		}
	}
}

func toolFromFile(path string) (tool.Tool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return tool.Tool{}, err
	}
	return tool.Tool{ID: filepath.Base(path), Name: filepath.Base(path), Schema: b}, nil
}

func toolFromServer(ctx context.Context, id string) (tool.Tool, error) {
	if err := conf.LoadFromEnv(); err != nil {
		return tool.Tool{}, err
	}

	logger := zap.NewNop()

	store := session.NewStore(logger, storage.NewFSStorage(conf.SessionPath))
	if ok, err := store.Restore(); err != nil {
		return tool.Tool{}, err
	} else if !ok {
		return tool.Tool{}, errors.New("no stored session, log in first")
	}

	client, err := api.NewClient(api.ClientOpts{
		BaseURL:     conf.APIURL,
		Middlewares: []api.Middleware{api.TokenMiddleware(store, api.Prefix, api.LoginPath)},
		Log:         logger,
	})
	if err != nil {
		return tool.Tool{}, err
	}

	return tool.NewCatalog(logger, client, tool.DefaultCacheTTL).Get(ctx, id)
}
