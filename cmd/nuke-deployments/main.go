// Command nuke-deployments removes every GitHub deployment from a repository.
// Deployments must be marked inactive before the API allows deleting them. The
// token in GITHUB_PAT needs the repo_deployments scope. This tool is a repo
// maintenance helper with no ties to the storefront core.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"storefront-go/internal/platform/config"
)

const (
	defaultOwner = "benc-uk"
	defaultRepo  = "dapr-store"
)

type deployment struct {
	ID int64 `json:"id"`
}

type nuker struct {
	baseURL string
	token   string
	http    *http.Client
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "nuke-deployments failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	token := os.Getenv("GITHUB_PAT")
	if token == "" {
		return fmt.Errorf("GITHUB_PAT must be set")
	}

	owner := config.EnvString("GITHUB_OWNER", defaultOwner)
	repo := config.EnvString("GITHUB_REPO", defaultRepo)

	n := &nuker{
		baseURL: fmt.Sprintf("https://api.github.com/repos/%s/%s/deployments", owner, repo),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	deployments, err := n.listDeployments(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d deployments found\n", len(deployments))

	inactive := 0
	for _, d := range deployments {
		if err := n.markInactive(ctx, d.ID); err != nil {
			return fmt.Errorf("mark deployment %d inactive: %w", d.ID, err)
		}
		inactive++
	}
	fmt.Printf("%d deployments marked as \"inactive\"\n", inactive)

	deleted := 0
	for _, d := range deployments {
		if err := n.deleteDeployment(ctx, d.ID); err != nil {
			return fmt.Errorf("delete deployment %d: %w", d.ID, err)
		}
		deleted++
	}
	fmt.Printf("%d deployments deleted\n", deleted)

	return nil
}

func (n *nuker) listDeployments(ctx context.Context) ([]deployment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL, nil)
	if err != nil {
		return nil, err
	}
	n.addAuth(req)

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list deployments: status %d", resp.StatusCode)
	}

	var deployments []deployment
	if err := json.NewDecoder(resp.Body).Decode(&deployments); err != nil {
		return nil, fmt.Errorf("decode deployments: %w", err)
	}
	return deployments, nil
}

func (n *nuker) markInactive(ctx context.Context, id int64) error {
	body, _ := json.Marshal(map[string]string{"state": "inactive"})
	url := fmt.Sprintf("%s/%d/statuses", n.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	n.addAuth(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github.ant-man-preview+json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func (n *nuker) deleteDeployment(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/%d", n.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	n.addAuth(req)

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func (n *nuker) addAuth(req *http.Request) {
	req.Header.Set("Authorization", "token "+n.token)
}
