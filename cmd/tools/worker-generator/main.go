// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	area := flag.String("area", "", "Worker area (e.g., intake, jury, admission)")
	task := flag.String("task", "", "Zeebe task type (e.g., score-eligibility)")
	service := flag.String("service", "", "Name of the collaborator interface the handler calls (e.g., Scorer)")
	root := flag.String("root", ".", "Repository root")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *area == "" || *task == "" {
		fmt.Println("Error: area and task are required.")
		flag.Usage()
		os.Exit(1)
	}

	data, err := NewWorkerData(*area, *task, *service)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	files, err := Generate(*root, data, *force)
	if err != nil {
		fmt.Printf("Error generating worker: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Printf("created %s\n", f)
	}
	fmt.Printf("Register %s.TaskType in cmd/worker-manager and add a workers.%s entry to configs/config.yaml\n", data.PackageName, data.TaskType)
}
