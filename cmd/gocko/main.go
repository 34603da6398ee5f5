// Command gocko is the CLI surface of spec.md §6: "a thin external
// collaborator" that drives one tick of the engine over an HTML fixture and
// emits a display list, in either its JSON wire form or a rasterized PNG.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gocko/internal/css"
	"gocko/internal/displaylist"
	"gocko/internal/dom"
	"gocko/internal/engineerr"
	"gocko/internal/htmlload"
	"gocko/internal/incremental"
	"gocko/internal/layout"
	"gocko/internal/logging"
	"gocko/internal/paint"
)

// exitCode mirrors spec.md §6's three CLI outcomes: 0 success, 1
// layout/paint failure, 2 comparison-failure in test mode.
type exitCode int

const (
	exitSuccess exitCode = 0
	exitFailure exitCode = 1
	exitMismatch exitCode = 2
)

func main() {
	os.Exit(int(run(os.Args[1:])))
}

func run(args []string) exitCode {
	var viewport string
	var out string
	var outFile string
	var cacheDir string

	root := &cobra.Command{Use: "gocko"}
	runCmd := &cobra.Command{
		Use:   "run <fixture>",
		Short: "run one engine tick over an HTML fixture and emit its display list",
		Args:  cobra.ExactArgs(1),
	}
	runCmd.Flags().StringVar(&viewport, "viewport", "1024x768", "viewport size as WIDTHxHEIGHT")
	runCmd.Flags().StringVar(&out, "out", "displaylist", "output mode: displaylist|png")
	runCmd.Flags().StringVar(&outFile, "out-file", "", "output file path (defaults to stdout for displaylist, required for png)")
	runCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "optional reference-snapshot cache directory")

	code := exitSuccess
	runCmd.RunE = func(cmd *cobra.Command, posArgs []string) error {
		code = runFixture(posArgs[0], viewport, out, outFile, cacheDir)
		return nil
	}
	root.AddCommand(runCmd)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	return code
}

func runFixture(fixturePath, viewport, out, outFile, cacheDir string) exitCode {
	log := logging.Default()

	width, height, err := parseViewport(viewport)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	source, err := os.ReadFile(fixturePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	store := dom.NewStore(log)
	doc, err := htmlload.Load(store, string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	ua := css.BuildUserAgentStylesheet()
	author := css.ParseStylesheet(doc.Stylesheet, css.OriginAuthor)
	merged := css.Merge(ua, author)
	idx := css.BuildRuleIndex(merged)

	cascade := css.NewCascade(store, idx)
	engine := incremental.New()
	styles, err := cascade.ResolveTreeIncremental(engine, dom.RootID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	tree := layout.Run(store, styles, dom.RootID, width, height)
	items := displaylist.Build(tree)

	if cacheDir != "" {
		if mismatch := compareAgainstCache(fixturePath, cacheDir, tree); mismatch {
			fmt.Fprintln(os.Stderr, "layout mismatch against cached reference snapshot")
			return exitMismatch
		}
	}

	switch out {
	case "displaylist":
		return writeDisplayList(items, outFile)
	case "png":
		return writePNG(items, width, height, outFile)
	default:
		fmt.Fprintf(os.Stderr, "unknown --out mode %q (want displaylist|png)\n", out)
		return exitFailure
	}
}

func parseViewport(spec string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(spec), "x", 2)
	if len(parts) != 2 {
		return 0, 0, engineerr.New(engineerr.InputMalformed, "viewport must be WIDTHxHEIGHT, e.g. 1024x768")
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, engineerr.Wrap(engineerr.InputMalformed, "invalid viewport width", err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, engineerr.Wrap(engineerr.InputMalformed, "invalid viewport height", err)
	}
	return w, h, nil
}

func writeDisplayList(items []displaylist.Item, outFile string) exitCode {
	encoded, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	if outFile == "" {
		fmt.Println(string(encoded))
		return exitSuccess
	}
	if err := os.WriteFile(outFile, encoded, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	return exitSuccess
}

func writePNG(items []displaylist.Item, width, height int, outFile string) exitCode {
	if outFile == "" {
		fmt.Fprintln(os.Stderr, "--out-file is required when --out=png")
		return exitFailure
	}
	encoded, err := paint.EncodePNG(items, width, height)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	if err := os.WriteFile(outFile, encoded, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	return exitSuccess
}

// referenceSnapshot is the on-disk shape of a cached reference-engine
// layout result (spec §6 "Cache directory ... JSON snapshots of reference
// engines' layout output").
type referenceSnapshot struct {
	Rects map[string][4]int `json:"rects"` // NodeId (decimal string) -> [x, y, w, h]
}

// compareAgainstCache reports whether tree's computed rects diverge from a
// cached reference snapshot keyed by a hash of the fixture's absolute path,
// per spec §6 ("keyed by a hash of (absolute fixture path, harness
// source)"). A missing snapshot is not a mismatch — it simply means no
// reference run has been cached yet.
func compareAgainstCache(fixturePath, cacheDir string, tree *layout.Box) bool {
	abs, err := filepath.Abs(fixturePath)
	if err != nil {
		return false
	}
	sum := sha256.Sum256([]byte(abs + "|gocko"))
	key := hex.EncodeToString(sum[:])
	snapshotPath := filepath.Join(cacheDir, key+".json")

	raw, err := os.ReadFile(snapshotPath)
	if err != nil {
		return false
	}
	var snap referenceSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return false
	}

	rects := layout.Flatten(tree)
	for nodeKey, want := range snap.Rects {
		idVal, err := strconv.ParseUint(nodeKey, 10, 64)
		if err != nil {
			continue
		}
		got, ok := rects[dom.NodeID(idVal)]
		if !ok {
			return true
		}
		if got.X != want[0] || got.Y != want[1] || got.Width != want[2] || got.Height != want[3] {
			return true
		}
	}
	return false
}
