// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Configuration and backend diagnostics.
//
// Command: doctor
// Short:   Check that minbao can reach and use its backend
//
// Examples:
//   minbao doctor
//   minbao doctor --json
//   minbao doctor --backend http://10.0.0.5:8000
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/auth"
	"github.com/minbao/minbao-tui/internal/staging"
)

// doctorTimeout bounds each network check.
const doctorTimeout = 5 * time.Second

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	// CheckPass indicates the check passed successfully.
	CheckPass CheckStatus = iota
	// CheckWarn indicates the check passed with warnings.
	CheckWarn
	// CheckFail indicates the check failed.
	CheckFail
)

// String returns the JSON name of the status.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarn:
		return "warn"
	case CheckFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns the rendered marker for the status.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return SuccessStyle.Render("[OK]")
	case CheckWarn:
		return WarningStyle.Render("[!!]")
	case CheckFail:
		return ErrorStyle.Render("[FAIL]")
	default:
		return "?"
	}
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`

	status CheckStatus
}

func newCheck(name string, status CheckStatus, message, fix string) *HealthCheck {
	return &HealthCheck{Name: name, Status: status.String(), Message: message, Fix: fix, status: status}
}

// Render returns a formatted string representation of the health check.
func (c *HealthCheck) Render() string {
	result := fmt.Sprintf("%s %s", c.status.Symbol(), ValueStyle.Render(c.Message))
	if c.status != CheckPass && c.Fix != "" {
		result += "\n     " + DimStyle.Render("-> "+c.Fix)
	}
	return result
}

// DoctorSummary totals the checks.
type DoctorSummary struct {
	Passed  int  `json:"passed"`
	Warned  int  `json:"warned"`
	Failed  int  `json:"failed"`
	Healthy bool `json:"healthy"`
}

// DoctorData is the --json payload of doctor.
type DoctorData struct {
	Backend string         `json:"backend"`
	Checks  []*HealthCheck `json:"checks"`
	Summary DoctorSummary  `json:"summary"`
}

// =============================================================================
// DOCTOR HANDLER
// =============================================================================

// HandleDoctor runs every check and prints the results.
func HandleDoctor(env *Env) error {
	checks := runAllChecks(context.Background(), env)

	data := DoctorData{Backend: env.Config.Backend.URL, Checks: checks}
	for _, c := range checks {
		switch c.status {
		case CheckPass:
			data.Summary.Passed++
		case CheckWarn:
			data.Summary.Warned++
		case CheckFail:
			data.Summary.Failed++
		}
	}
	data.Summary.Healthy = data.Summary.Failed == 0

	var err error
	if data.Summary.Failed > 0 {
		err = fmt.Errorf("%d health check(s) failed", data.Summary.Failed)
	}

	if env.Args.JSON {
		resp := NewJSONResponse("doctor", data)
		if err != nil {
			msg := err.Error()
			resp.Success = false
			resp.Error = &msg
		}
		if perr := resp.Print(env.Out); perr != nil {
			return perr
		}
		return err
	}

	fmt.Fprintln(env.Out, TitleStyle.Render("minbao doctor"))
	fmt.Fprintln(env.Out, DimStyle.Render(env.Config.Backend.URL))
	fmt.Fprintln(env.Out, RenderSeparator(41))
	for _, c := range checks {
		fmt.Fprintln(env.Out, c.Render())
	}
	fmt.Fprintln(env.Out, RenderSeparator(41))

	parts := []string{fmt.Sprintf("%d passed", data.Summary.Passed)}
	if data.Summary.Warned > 0 {
		parts = append(parts, WarningStyle.Render(fmt.Sprintf("%d warning", data.Summary.Warned)))
	}
	if data.Summary.Failed > 0 {
		parts = append(parts, ErrorStyle.Render(fmt.Sprintf("%d failed", data.Summary.Failed)))
	}
	fmt.Fprintln(env.Out, strings.Join(parts, ", "))
	return err
}

func runAllChecks(ctx context.Context, env *Env) []*HealthCheck {
	checks := []*HealthCheck{
		checkConfigValid(env),
		checkAuth(env),
	}

	health := checkBackendHealth(ctx, env)
	checks = append(checks, health)
	if health.status == CheckFail {
		checks = append(checks, newCheck("admin_api", CheckFail, "Admin API not checked (backend unreachable)", ""))
	} else {
		checks = append(checks, checkAdminAPI(ctx, env), checkKnowledgeBase(ctx, env))
	}

	checks = append(checks, checkUploadDir(env), checkLogWritable(env))
	return checks
}

// =============================================================================
// CHECKS
// =============================================================================

func checkConfigValid(env *Env) *HealthCheck {
	if err := env.Config.Validate(); err != nil {
		return newCheck("config", CheckFail, "Config invalid: "+err.Error(), "minbao config init")
	}
	return newCheck("config", CheckPass, "Config valid", "")
}

func checkAuth(env *Env) *HealthCheck {
	v, err := auth.NewVerifier(env.Config.Auth)
	if err != nil {
		return newCheck("auth", CheckFail, "Admin verifier unusable: "+err.Error(), "check [auth] in the config file")
	}
	return newCheck("auth", CheckPass, "Admin verifier: "+v.Name(), "")
}

func checkBackendHealth(ctx context.Context, env *Env) *HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	start := time.Now()
	resp, err := env.Client.Health(ctx)
	if err != nil {
		if api.IsTransport(err) {
			return newCheck("backend", CheckFail, "Backend unreachable: "+api.Detail(err),
				"start the backend or pass --backend URL")
		}
		return newCheck("backend", CheckFail, "Backend health failed: "+api.Detail(err), "")
	}
	msg := fmt.Sprintf("Backend %s (%s, %dms)", resp.Status, resp.Service, time.Since(start).Milliseconds())
	if resp.Status != "ok" {
		return newCheck("backend", CheckWarn, msg, "")
	}
	return newCheck("backend", CheckPass, msg, "")
}

func checkAdminAPI(ctx context.Context, env *Env) *HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	cfg, err := env.Client.GetConfig(ctx)
	if err != nil {
		return newCheck("admin_api", CheckFail, "Admin config unavailable: "+api.Detail(err), "")
	}
	msg := fmt.Sprintf("Admin config: %s @ %.1f", cfg.Model, cfg.Temperature)
	if !cfg.InCatalog() {
		return newCheck("admin_api", CheckWarn, msg+" "+env.Catalog.ModelNotInList, "minbao admin set --model NAME")
	}
	return newCheck("admin_api", CheckPass, msg, "")
}

func checkKnowledgeBase(ctx context.Context, env *Env) *HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	files, err := env.Client.ListFiles(ctx)
	if err != nil {
		return newCheck("knowledge_base", CheckWarn, "Knowledge base files unavailable: "+api.Detail(err), "")
	}
	if len(files) == 0 {
		return newCheck("knowledge_base", CheckWarn, "Knowledge base has no files",
			"minbao admin upload FILE && minbao admin rebuild")
	}
	return newCheck("knowledge_base", CheckPass, fmt.Sprintf("Knowledge base: %d file(s)", len(files)), "")
}

func checkUploadDir(env *Env) *HealthCheck {
	dir := env.Config.Admin.UploadDir
	if dir == "" {
		return newCheck("upload_dir", CheckPass, "Upload staging directory not configured", "")
	}
	candidates, err := staging.List(staging.ExpandPath(dir), env.Config.Admin.AllowedExts)
	if err != nil {
		return newCheck("upload_dir", CheckWarn, "Upload directory unreadable: "+err.Error(),
			"mkdir -p "+dir)
	}
	return newCheck("upload_dir", CheckPass, fmt.Sprintf("Upload directory: %d candidate(s)", len(candidates)), "")
}

func checkLogWritable(env *Env) *HealthCheck {
	path, err := env.Config.LogPath()
	if err != nil {
		return newCheck("log", CheckWarn, "Log path unknown: "+err.Error(), "set [log] file")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return newCheck("log", CheckWarn, "Log directory not writable: "+err.Error(), "set [log] file")
	}
	f, err := os.CreateTemp(dir, ".minbao-doctor-*")
	if err != nil {
		return newCheck("log", CheckWarn, "Log directory not writable: "+err.Error(), "set [log] file")
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return newCheck("log", CheckPass, "Log file: "+path, "")
}
