package installer

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/apex/log"
)

// prompter abstracts the interactive questions so the collection flow can
// be driven by canned answers in tests.
type prompter struct {
	confirm func(message string, def bool) (bool, error)
	input   func(message string) (string, error)
	secret  func(message string) (string, error)
}

func newSurveyPrompter() prompter {
	return prompter{
		confirm: func(message string, def bool) (bool, error) {
			answer := def
			err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &answer)
			return answer, err
		},
		input: func(message string) (string, error) {
			var answer string
			err := survey.AskOne(&survey.Input{Message: message}, &answer)
			return answer, err
		},
		secret: func(message string) (string, error) {
			var answer string
			err := survey.AskOne(&survey.Password{Message: message}, &answer)
			return answer, err
		},
	}
}

// CollectConfig runs the interactive collection stage: domain, then token,
// each offering reuse of previously saved values.
func CollectConfig(ctx context.Context, verifier TokenVerifier) (Config, error) {
	saved, err := ReadCredentials(GetCredentialsPath())
	if err != nil {
		saved = map[string]string{}
	}

	p := newSurveyPrompter()
	domain, err := collectDomain(p, saved[keyDomains])
	if err != nil {
		return Config{}, err
	}
	token, err := collectToken(ctx, p, saved[keyToken], verifier)
	if err != nil {
		return Config{}, err
	}
	return NewConfig(domain, token), nil
}

// collectDomain offers the saved domain (already trusted, no re-check) and
// otherwise loops until syntactically valid input arrives.
func collectDomain(p prompter, saved string) (string, error) {
	if saved != "" {
		use, err := p.confirm(fmt.Sprintf("Use saved domain %q?", saved), true)
		if err != nil {
			return "", err
		}
		if use {
			return saved, nil
		}
	}
	for {
		val, err := p.input("Domain for the DNS stack (e.g. dns.example.com):")
		if err != nil {
			return "", err
		}
		val = strings.TrimSpace(val)
		if verr := ValidateDomain(val); verr != nil {
			log.Warnf("invalid domain: %v", verr)
			continue
		}
		return val, nil
	}
}

// collectToken re-verifies a reused token against Cloudflare; if it went
// stale the flow falls through to fresh entry instead of aborting.
func collectToken(ctx context.Context, p prompter, saved string, verifier TokenVerifier) (string, error) {
	if saved != "" {
		use, err := p.confirm("Use saved Cloudflare API token?", true)
		if err != nil {
			return "", err
		}
		if use {
			if verr := verifier.VerifyToken(ctx, saved); verr == nil {
				return saved, nil
			}
			log.Warn("saved token failed verification, a new one is required")
		}
	}
	for {
		val, err := p.secret("Cloudflare API token (Zone:DNS:Edit):")
		if err != nil {
			return "", err
		}
		val = strings.TrimSpace(val)
		if verr := ValidateTokenFormat(val); verr != nil {
			log.Warnf("invalid token: %v", verr)
			continue
		}
		if verr := verifier.VerifyToken(ctx, val); verr != nil {
			log.Warnf("token verification failed: %v", verr)
			continue
		}
		return val, nil
	}
}
