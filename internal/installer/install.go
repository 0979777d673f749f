package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
)

// Pipeline holds the external capabilities and tunables of the install
// flow. Tests swap the runtime and scheduler for fakes.
type Pipeline struct {
	Runtime      ContainerRuntime
	Scheduler    Scheduler
	BundleURL    string
	PollInterval time.Duration
	WaitBudget   time.Duration
}

func NewPipeline() Pipeline {
	return Pipeline{
		Runtime:      NewDockerRuntime(),
		Scheduler:    NewCrontabScheduler(),
		BundleURL:    GetBundleURL(),
		PollInterval: certPollInterval,
		WaitBudget:   certWaitBudget,
	}
}

// Run executes the provisioning pipeline: persist credentials, fetch the
// bundle, patch configuration, fix volume ownership, launch the stack,
// schedule renewal, then wait (best effort) for certificates. Steps up to
// and including the launch are fatal on failure; everything after is not.
func (p Pipeline) Run(ctx context.Context, cfg Config) error {
	log.Infof("saving credentials to %s", cfg.CredentialsPath)
	if err := WriteCredentials(cfg.CredentialsPath, cfg); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	if err := p.Runtime.EnsureInstalled(ctx); err != nil {
		return err
	}

	log.Infof("fetching service bundle into %s", cfg.InstallDir)
	if err := FetchBundle(ctx, p.BundleURL, cfg.InstallDir); err != nil {
		return err
	}
	if !fileExists(cfg.AdGuardConfigPath()) {
		return fmt.Errorf("missing configuration file: %s", cfg.AdGuardConfigPath())
	}

	log.Infof("configuring stack for %s", cfg.Domain)
	if err := PatchDomain(cfg.AdGuardConfigPath(), cfg.Domain); err != nil {
		return fmt.Errorf("patch domain: %w", err)
	}
	if err := PatchMaxMemory(cfg.ComposePath(), RedisMaxMemoryMB()); err != nil {
		return fmt.Errorf("patch redis memory limit: %w", err)
	}
	if err := FixVolumeOwnership(cfg); err != nil {
		return err
	}

	log.Info("starting services")
	if err := p.Runtime.ComposeUp(ctx, cfg.InstallDir); err != nil {
		return err
	}

	if err := EnsureRenewalJob(p.Scheduler); err != nil {
		log.Warnf("could not schedule certificate renewal: %v", err)
	}

	log.Info("waiting for certificate issuance")
	if err := WaitForCertificates(ctx, cfg.CertLiveDir(), certFileNames, p.PollInterval, p.WaitBudget); err != nil {
		log.Warnf("%v; check progress with: docker logs certbot", err)
	}
	return nil
}
