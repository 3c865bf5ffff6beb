// Command smoke probes a running API instance against a JSON target list and
// exits non-zero when any critical endpoint misbehaves. Used after deploys.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expect   int    `json:"expect"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type probe struct {
	Target   target
	Status   int
	Duration time.Duration
	Err      error
}

func main() {
	var (
		base        string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var failures int

	fmt.Println("Smoke Report")
	fmt.Println("============")
	for _, t := range targets {
		p := probeTarget(client, base, t)
		verdict := "OK"
		if p.Err != nil || !matches(p) {
			verdict = "FAIL"
			if t.Critical {
				failures++
			}
		}
		fmt.Printf("[%s] %s %s\n", verdict, p.Target.Method, p.Target.Path)
		if p.Err != nil {
			fmt.Printf("  Error: %v\n", p.Err)
			continue
		}
		fmt.Printf("  Status: %d (want %d) in %s\n", p.Status, expected(t), p.Duration)
	}

	if failures > 0 {
		fmt.Printf("Critical failures: %d\n", failures)
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f targetFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return f.Targets, nil
}

func probeTarget(client *http.Client, base string, tgt target) probe {
	p := probe{Target: tgt}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		p.Err = err
		return p
	}
	start := time.Now()
	resp, err := client.Do(req)
	p.Duration = time.Since(start)
	if err != nil {
		p.Err = err
		return p
	}
	defer resp.Body.Close()
	p.Status = resp.StatusCode
	return p
}

func matches(p probe) bool {
	return p.Status == expected(p.Target)
}

func expected(t target) int {
	if t.Expect == 0 {
		return http.StatusOK
	}
	return t.Expect
}
