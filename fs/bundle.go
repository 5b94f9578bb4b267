package fs

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/santiagomed/dapp/contract"
	"github.com/santiagomed/dapp/core"
	"gopkg.in/yaml.v3"
)

const (
	AppFile       = "App.jsx"
	PlanFile      = "plan.yaml"
	ABIFile       = "abi.json"
	ComponentsDir = "components"
)

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// ComponentFile is the bundle path of a generated component.
func ComponentFile(name string) string {
	clean := unsafeNameRe.ReplaceAllString(name, "")
	if clean == "" {
		clean = "Component"
	}
	return filepath.Join(ComponentsDir, clean+".jsx")
}

// ComponentFiles maps each component to its bundle path. Names that clean to
// the same file get a numeric suffix in plan order: A.jsx, A2.jsx, A3.jsx.
func ComponentFiles(components []core.GeneratedComponent) []string {
	files := make([]string, len(components))
	seen := make(map[string]int, len(components))
	for i, c := range components {
		file := ComponentFile(c.Name)
		seen[file]++
		for n := seen[file]; n > 1; n++ {
			alt := strings.TrimSuffix(file, ".jsx") + strconv.Itoa(n) + ".jsx"
			if seen[alt] == 0 {
				seen[alt] = 1
				file = alt
				break
			}
		}
		files[i] = file
	}
	return files
}

// WriteBundle lays out a pipeline result under dir:
//
//	App.jsx                 assembled source
//	components/<Name>.jsx   each generated component
//	plan.yaml               the component plan
//	abi.json                the contract ABI
func (fs *FileSystem) WriteBundle(dir string, res *core.Result) error {
	if res == nil {
		return fmt.Errorf("nothing to write")
	}

	if err := fs.WriteFile(filepath.Join(dir, AppFile), res.Source+"\n"); err != nil {
		return err
	}

	files := ComponentFiles(res.Components)
	for i, c := range res.Components {
		if err := fs.WriteFile(filepath.Join(dir, files[i]), c.Code+"\n"); err != nil {
			return err
		}
	}

	if res.Plan != nil {
		plan, err := yaml.Marshal(res.Plan)
		if err != nil {
			return fmt.Errorf("error encoding plan: %w", err)
		}
		if err := fs.WriteFile(filepath.Join(dir, PlanFile), string(plan)); err != nil {
			return err
		}
	}

	entries := res.ABI
	if entries == nil {
		entries = contract.ABI{}
	}
	abi, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding ABI: %w", err)
	}
	return fs.WriteFile(filepath.Join(dir, ABIFile), string(abi)+"\n")
}
