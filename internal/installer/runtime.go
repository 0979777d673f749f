package installer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/apex/log"
)

// ContainerRuntime is the orchestration surface the pipeline depends on, so
// the install flow can be exercised against fakes in tests.
type ContainerRuntime interface {
	EnsureInstalled(ctx context.Context) error
	ComposeUp(ctx context.Context, dir string) error
	Restart(ctx context.Context, container string) error
	Running(ctx context.Context, container string) bool
}

type dockerRuntime struct{}

func NewDockerRuntime() ContainerRuntime {
	return dockerRuntime{}
}

func (dockerRuntime) EnsureInstalled(ctx context.Context) error {
	if _, err := exec.LookPath("docker"); err == nil {
		return nil
	}
	log.Info("docker not found, installing via get.docker.com")
	if err := runCmdStream(ctx, "sh", "-c", "curl -fsSL https://get.docker.com | sh"); err != nil {
		return fmt.Errorf("install docker: %w", err)
	}
	return nil
}

func (dockerRuntime) ComposeUp(ctx context.Context, dir string) error {
	args := []string{
		"compose",
		"-f", dir + "/docker-compose.yml",
		"up", "-d", "--build", "--force-recreate",
	}
	if err := runCmdStream(ctx, "docker", args...); err != nil {
		return fmt.Errorf("docker compose up: %w", err)
	}
	return nil
}

func (dockerRuntime) Restart(ctx context.Context, container string) error {
	return runCmdStream(ctx, "docker", "restart", container)
}

func (dockerRuntime) Running(ctx context.Context, container string) bool {
	out, err := runCmdCapture("docker", "ps", "-q", "--filter", "name="+container)
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}
