package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/admissions-eligibility-api/internal/dto"
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// replayCase is one candidate profile with the verdicts it must produce.
type replayCase struct {
	Name        string                              `yaml:"name"`
	Institution string                              `yaml:"institution"`
	Critical    bool                                `yaml:"critical"`
	Grades      models.StudentGrades                `yaml:"grades"`
	Expect      map[string]models.EligibilityStatus `yaml:"expect"`
}

type caseFile struct {
	Cases []replayCase `yaml:"cases"`
}

type outcome struct {
	Case       replayCase
	HTTPStatus int
	Mismatches []string
	Error      error
	Duration   time.Duration
}

type envelope struct {
	Data dto.EligibilityResponse `json:"data"`
}

func main() {
	var (
		base      string
		casesPath string
		timeout   time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL including the prefix")
	flag.StringVar(&casesPath, "cases", filepath.Join("scripts", "verdict_replay", "cases.yaml"), "Path to YAML case file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	cases, err := loadCases(casesPath)
	if err != nil {
		log.Fatalf("failed to load cases: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		outcomes []outcome
		breaking int
		optional int
	)
	for _, c := range cases {
		res := replay(client, base, c)
		if res.Error != nil || len(res.Mismatches) > 0 {
			if c.Critical {
				breaking++
			} else {
				optional++
			}
		}
		outcomes = append(outcomes, res)
	}

	printReport(outcomes)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadCases(path string) ([]replayCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file caseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("no cases defined in %s", path)
	}
	return file.Cases, nil
}

func replay(client *http.Client, base string, c replayCase) outcome {
	res := outcome{Case: c}

	payload, err := json.Marshal(dto.EligibilityRequest{StudentGrades: c.Grades})
	if err != nil {
		res.Error = err
		return res
	}
	url := strings.TrimRight(base, "/") + "/eligibility"
	if c.Institution != "" {
		url += "/" + c.Institution
	}

	start := time.Now()
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = fmt.Errorf("request failed: %w", err)
		return res
	}
	defer resp.Body.Close()
	res.HTTPStatus = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Error = fmt.Errorf("read body: %w", err)
		return res
	}
	if resp.StatusCode != http.StatusOK {
		res.Error = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return res
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		res.Error = fmt.Errorf("decode body: %w", err)
		return res
	}
	res.Mismatches = diffVerdicts(c.Expect, env.Data.Results)
	return res
}

func diffVerdicts(expect map[string]models.EligibilityStatus, results []models.EligibilityResult) []string {
	got := make(map[string]models.EligibilityStatus, len(results))
	for _, r := range results {
		got[r.ProgramID] = r.Status
	}

	ids := make([]string, 0, len(expect))
	for id := range expect {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var diffs []string
	for _, id := range ids {
		actual, ok := got[id]
		switch {
		case !ok:
			diffs = append(diffs, fmt.Sprintf("%s: missing from results", id))
		case actual != expect[id]:
			diffs = append(diffs, fmt.Sprintf("%s: expected %s, got %s", id, expect[id], actual))
		}
	}
	return diffs
}

func printReport(results []outcome) {
	fmt.Println("Verdict Replay Report")
	fmt.Println("=====================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if len(res.Mismatches) > 0 {
			status = "DIFF"
		}
		institution := res.Case.Institution
		if institution == "" {
			institution = "all"
		}
		fmt.Printf("[%s] %s (%s, %d, %s)\n", status, res.Case.Name, institution, res.HTTPStatus, res.Duration)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		}
		for _, m := range res.Mismatches {
			fmt.Printf("  %s\n", m)
		}
	}
}
