// Package techstack detects a project's technology stack by sniffing
// well-known configuration files at the project root.
//
// Detection is a thin heuristic: presence of a file decides the
// language, and a shallow parse of its contents adds detail (module
// name, frameworks, services). Unreadable or malformed files simply
// contribute less detail — they never fail detection.
package techstack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Detection is one identified piece of the stack.
type Detection struct {
	// Name is the human-readable label, e.g. "Go" or "Node.js (react)".
	Name string `json:"name"`
	// File is the config file that triggered the detection.
	File string `json:"file"`
}

// Summary flattens detections into the strings the plan template lists.
func Summary(detections []Detection) []string {
	out := make([]string, len(detections))
	for i, d := range detections {
		out[i] = fmt.Sprintf("%s (%s)", d.Name, d.File)
	}
	return out
}

// Detect inspects root for known configuration files. Only a missing or
// unreadable root directory is an error; individual files that fail to
// parse still count by presence alone.
func Detect(root string) ([]Detection, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("inspecting project root %s: %w", root, err)
	}

	var detections []Detection
	add := func(name, file string) {
		detections = append(detections, Detection{Name: name, File: file})
	}

	if mod := readFile(root, "go.mod"); mod != "" {
		add("Go"+goModuleSuffix(mod), "go.mod")
	}
	if pkg := readFile(root, "package.json"); pkg != "" {
		add("Node.js"+nodeSuffix(pkg), "package.json")
	}
	if exists(root, "pyproject.toml") {
		add("Python"+pythonSuffix(filepath.Join(root, "pyproject.toml")), "pyproject.toml")
	} else if exists(root, "requirements.txt") {
		add("Python", "requirements.txt")
	}
	if exists(root, "Cargo.toml") {
		add("Rust"+cargoSuffix(filepath.Join(root, "Cargo.toml")), "Cargo.toml")
	}
	if exists(root, "pom.xml") {
		add("Java (Maven)", "pom.xml")
	}
	if exists(root, "build.gradle") || exists(root, "build.gradle.kts") {
		add("Java/Kotlin (Gradle)", "build.gradle")
	}
	if exists(root, "Gemfile") {
		add("Ruby", "Gemfile")
	}
	for _, name := range []string{"docker-compose.yml", "docker-compose.yaml", "compose.yaml"} {
		if data := readFile(root, name); data != "" {
			add("Docker Compose"+composeSuffix(data), name)
			break
		}
	}

	return detections, nil
}

// --- Per-ecosystem detail ---

func goModuleSuffix(goMod string) string {
	for _, line := range strings.Split(goMod, "\n") {
		if strings.HasPrefix(line, "module ") {
			return " — module " + strings.TrimSpace(strings.TrimPrefix(line, "module "))
		}
	}
	return ""
}

// knownNodeFrameworks are dependency names worth surfacing in a plan.
var knownNodeFrameworks = []string{"react", "next", "vue", "svelte", "express", "fastify", "nest"}

func nodeSuffix(pkgJSON string) string {
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(pkgJSON), &pkg); err != nil {
		return ""
	}

	var found []string
	for _, fw := range knownNodeFrameworks {
		if _, ok := pkg.Dependencies[fw]; ok {
			found = append(found, fw)
			continue
		}
		if _, ok := pkg.DevDependencies[fw]; ok {
			found = append(found, fw)
		}
	}
	if len(found) == 0 {
		return ""
	}
	return " with " + strings.Join(found, ", ")
}

func pythonSuffix(path string) string {
	var project struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if _, err := toml.DecodeFile(path, &project); err != nil {
		return ""
	}
	if project.Project.Name != "" {
		return " — " + project.Project.Name
	}
	if project.Tool.Poetry.Name != "" {
		return " — " + project.Tool.Poetry.Name + " (poetry)"
	}
	return ""
}

func cargoSuffix(path string) string {
	var manifest struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		return ""
	}
	if manifest.Package.Name == "" {
		return ""
	}
	return " — " + manifest.Package.Name
}

func composeSuffix(data string) string {
	var compose struct {
		Services map[string]any `yaml:"services"`
	}
	if err := yaml.Unmarshal([]byte(data), &compose); err != nil || len(compose.Services) == 0 {
		return ""
	}

	names := make([]string, 0, len(compose.Services))
	for name := range compose.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return ": " + strings.Join(names, ", ")
}

// --- File helpers ---

func exists(root, name string) bool {
	_, err := os.Stat(filepath.Join(root, name))
	return err == nil
}

func readFile(root, name string) string {
	data, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		return ""
	}
	return string(data)
}
