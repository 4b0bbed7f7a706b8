package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/restclient/internal/app"
	"github.com/samvad-hq/restclient/internal/config"
	"github.com/samvad-hq/restclient/internal/logger"
	"github.com/samvad-hq/restclient/pkg/httpclient"
	"github.com/samvad-hq/restclient/pkg/restclient"
)

// rootFlags holds the persistent flags shared by every verb command.
type rootFlags struct {
	envFile     string
	endpoint    string
	token       string
	identifier  string
	headers     []string
	headersFile string
	query       []string
	output      string
	raw         bool
	cacheTTL    int64
	timeout     int64
	verbose     bool

	// transport is swapped in tests.
	transport httpclient.Transport
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootFlags{})
}

func newRootCmdWith(f *rootFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "restcli",
		Short: "Talk JSON to a token-authenticated REST endpoint",
		Long: `restcli sends JSON requests to the endpoint configured in REST_CLIENT_ENDPOINT,
authenticating with REST_CLIENT_TOKEN. Both can also come from an .env file or flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.envFile, "env", config.DefaultEnvFile, "Path to .env file")
	pf.StringVar(&f.endpoint, "endpoint", "", "Base URL (overrides REST_CLIENT_ENDPOINT)")
	pf.StringVar(&f.token, "token", "", "API token (overrides REST_CLIENT_TOKEN)")
	pf.StringVar(&f.identifier, "identifier", "", "User-Agent identifier")
	pf.StringArrayVarP(&f.headers, "header", "H", nil, "Extra header as key=value (repeatable)")
	pf.StringVar(&f.headersFile, "headers-file", "", "YAML or JSON file with extra headers")
	pf.StringArrayVarP(&f.query, "query", "q", nil, "Query parameter as key=value (repeatable)")
	pf.StringVarP(&f.output, "output", "o", app.FormatJSON, "Output format: json or yaml")
	pf.BoolVar(&f.raw, "raw", false, "Print the response body as-is, without status check or decoding")
	pf.Int64Var(&f.cacheTTL, "cache-ttl", -1, "Cache GET responses for this many seconds (0 disables)")
	pf.Int64Var(&f.timeout, "timeout", -1, "Request timeout in seconds (0 disables)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newVerbCmd(f, restclient.MethodGet, false),
		newVerbCmd(f, restclient.MethodPost, true),
		newVerbCmd(f, restclient.MethodPut, true),
		newVerbCmd(f, restclient.MethodPatch, true),
		newVerbCmd(f, restclient.MethodDelete, false),
	)
	return root
}

func newVerbCmd(f *rootFlags, method restclient.Method, withData bool) *cobra.Command {
	name := strings.ToLower(method.String())
	cmd := &cobra.Command{
		Use:   name + " <path>",
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, f, app.Call{Method: method, Path: args[0], Raw: f.raw})
		},
	}
	if !withData {
		return cmd
	}

	var dataFile string
	cmd.Use = name + " <path> [json]"
	cmd.Args = cobra.RangeArgs(1, 2)
	cmd.Flags().StringVarP(&dataFile, "data-file", "d", "", "File with the JSON payload")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		call := app.Call{Method: method, Path: args[0], Raw: f.raw}
		data, err := loadData(args[1:], dataFile)
		if err != nil {
			return err
		}
		call.Data = data
		return execute(cmd, f, call)
	}
	return cmd
}

// loadData parses the payload from the positional argument or the data file; the file wins
// when both are given.
func loadData(args []string, dataFile string) (any, error) {
	if dataFile != "" {
		raw, err := os.ReadFile(dataFile)
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		return parseData(raw)
	}
	if len(args) == 0 {
		return nil, nil
	}
	return parseData([]byte(args[0]))
}

func execute(cmd *cobra.Command, f *rootFlags, call app.Call) error {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(cfg, f); err != nil {
		return err
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	headers := map[string]string{}
	if f.headersFile != "" {
		fileHeaders, err := config.LoadHeaders(f.headersFile)
		if err != nil {
			return fmt.Errorf("load headers: %w", err)
		}
		for k, v := range fileHeaders {
			headers[k] = v
		}
	}
	flagHeaders, err := parsePairs(f.headers)
	if err != nil {
		return fmt.Errorf("--header: %w", err)
	}
	for k, v := range flagHeaders {
		headers[k] = v
	}

	query, err := parsePairs(f.query)
	if err != nil {
		return fmt.Errorf("--query: %w", err)
	}
	call.Query = query

	runner, err := app.NewRunner(cfg, app.Options{
		Headers:   headers,
		Output:    cmd.OutOrStdout(),
		Format:    f.output,
		Transport: f.transport,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := runner.Close(); cerr != nil {
			logger.ErrorObj("cache close failed", "error", cerr.Error())
		}
	}()

	return runner.Run(cmd.Context(), call)
}

func applyOverrides(cfg *config.Config, f *rootFlags) error {
	if v := strings.TrimSpace(f.endpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(f.token); v != "" {
		cfg.Token = v
	}
	if v := strings.TrimSpace(f.identifier); v != "" {
		cfg.Identifier = v
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}
	if f.cacheTTL >= 0 {
		cfg.CacheTTLSeconds = f.cacheTTL
	}
	if f.timeout >= 0 {
		cfg.RequestTimeoutSeconds = f.timeout
	}
	return cfg.Normalize()
}

// parsePairs splits key=value arguments on the first "=".
func parsePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", p)
		}
		out[k] = v
	}
	return out, nil
}

func parseData(raw []byte) (any, error) {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}
	return data, nil
}
