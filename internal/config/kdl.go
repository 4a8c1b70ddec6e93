package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// kdlFileName is the kernel's configuration file, read from the project
// root. A missing file falls back to Default() unchanged.
const kdlFileName = ".maid.kdl"

// LoadKDL reads projectRoot/.maid.kdl, if present, and overlays it onto
// Default(). A missing file is not an error — the kernel runs on defaults.
func LoadKDL(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, kdlFileName)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := Default()
	cfg.Project.Root = projectRoot

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "cache":
			for _, cn := range n.Children {
				assignSimpleString(cn, "dir", func(v string) { cfg.Cache.Dir = v })
				assignSimpleString(cn, "version", func(v string) { cfg.Cache.Version = v })
			}
		case "tracker":
			for _, cn := range n.Children {
				if nodeName(cn) == "exclude" {
					if patterns := collectStringArgs(cn); len(patterns) > 0 {
						cfg.Tracker.ExcludeGlobs = append(cfg.Tracker.ExcludeGlobs, patterns...)
					}
				}
			}
		case "naming":
			for _, cn := range n.Children {
				assignSimpleString(cn, "function_pattern", func(v string) { cfg.Naming.FunctionPattern = v })
				assignSimpleString(cn, "class_pattern", func(v string) { cfg.Naming.ClassPattern = v })
			}
		case "behavioural":
			for _, cn := range n.Children {
				if nodeName(cn) == "import_follow_depth" {
					if i, ok := firstIntArg(cn); ok {
						cfg.Behavioural.ImportFollowDepth = i
					}
				}
			}
		case "performance":
			for _, cn := range n.Children {
				if nodeName(cn) == "parallel_file_workers" {
					if i, ok := firstIntArg(cn); ok {
						cfg.Performance.ParallelFileWorkers = i
					}
				}
			}
		}
	}

	if cfg.Project.Root != "" {
		abs, absErr := filepath.Abs(cfg.Project.Root)
		if absErr == nil {
			cfg.Project.Root = filepath.Clean(abs)
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
