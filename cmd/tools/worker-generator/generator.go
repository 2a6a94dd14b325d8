package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
)

const modulePath = "coaching-workers"

var taskPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// WorkerData holds data for templates
type WorkerData struct {
	Module      string
	Area        string
	TaskType    string
	PackageName string
	Service     string
	Method      string
}

// NewWorkerData derives package and interface names from the task type.
// "score-eligibility" gives package scoreeligibility and method ScoreEligibility.
func NewWorkerData(area, taskType, service string) (*WorkerData, error) {
	if !taskPattern.MatchString(area) {
		return nil, fmt.Errorf("invalid area %q", area)
	}
	if !taskPattern.MatchString(taskType) {
		return nil, fmt.Errorf("invalid task type %q: use lower-case words separated by dashes", taskType)
	}

	method := ""
	for _, part := range strings.Split(taskType, "-") {
		method += upperFirst(part)
	}
	if service == "" {
		service = "Service"
	}

	return &WorkerData{
		Module:      modulePath,
		Area:        area,
		TaskType:    taskType,
		PackageName: strings.ReplaceAll(taskType, "-", ""),
		Service:     service,
		Method:      method,
	}, nil
}

// upperFirst makes the first character uppercase
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var templates = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

// Generate writes the worker package under root/internal/workers/<area>/<task>/ and
// returns the created paths.
func Generate(root string, data *WorkerData, force bool) ([]string, error) {
	dir := filepath.Join(root, "internal", "workers", data.Area, data.TaskType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var created []string
	for _, name := range []string{"config.go", "models.go", "handler.go", "handler_test.go"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			return created, fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}

		tmpl, err := template.New(name).Parse(templates[name])
		if err != nil {
			return created, fmt.Errorf("parse template %s: %w", name, err)
		}

		f, err := os.Create(path)
		if err != nil {
			return created, fmt.Errorf("create %s: %w", path, err)
		}
		err = tmpl.Execute(f, data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return created, fmt.Errorf("render %s: %w", name, err)
		}
		created = append(created, path)
	}
	return created, nil
}
