package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/tayodev/snapback/internal/adapters/aws"
	"github.com/tayodev/snapback/internal/audit"
	"github.com/tayodev/snapback/internal/config"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/ports"
	"github.com/tayodev/snapback/internal/core/service"
	"github.com/tayodev/snapback/internal/errors"
	"github.com/tayodev/snapback/internal/log"
	jsonreport "github.com/tayodev/snapback/internal/reporting/json"
	"github.com/tayodev/snapback/internal/reporting/text"
	"github.com/tayodev/snapback/internal/safety"
	"github.com/tayodev/snapback/internal/snapshot"
)

// BuildApplicationFromViper assembles the full application: config, logger,
// snapshot provider, protection rules, AWS adapters, planner, orchestrator,
// audit store and reporter.
func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg := config.DefaultConfig()
	err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" })
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	logCfg := log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Infof(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	} else {
		logger.Debugf(ctx, "No configuration file found, using defaults/env/flags.")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	err = validate.StructCtx(ctx, cfg)
	if err != nil {
		var errorDetails strings.Builder
		errorDetails.WriteString("Configuration validation failed:")
		validationErrors := err.(validator.ValidationErrors)
		for _, fe := range validationErrors {
			errorDetails.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		wrappedErr := errors.NewUserFacing(errors.CodeConfigValidation, errorDetails.String(), "Please check your configuration file or flags.")
		logger.Errorf(ctx, wrappedErr, "Configuration validation failed")
		return nil, wrappedErr
	}
	logger.Debugf(ctx, "Configuration validated successfully")

	snapshots, err := snapshot.NewFileProvider(cfg.Snapshots.Dir)
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "Using snapshot directory: %s", cfg.Snapshots.Dir)

	checker, err := buildChecker(cfg.Protection)
	if err != nil {
		return nil, err
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	provider, err := aws.NewProvider(awsCfg, cfg.AWS.APIRPS, logger.WithFields(map[string]any{"component": "aws"}))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize AWS adapters")
	}
	logger.Infof(ctx, "AWS adapters registered: %d resource types", len(provider.Registry.Types()))

	resolver := service.NewResolver(provider.Registry, checker, logger.WithFields(map[string]any{"component": "resolver"}))
	planner, err := service.NewPlanner(snapshots, provider.Verifier, checker, resolver, logger.WithFields(map[string]any{"component": "planner"}))
	if err != nil {
		return nil, err
	}

	store, err := audit.NewFileStore(cfg.Audit.Dir)
	if err != nil {
		return nil, err
	}

	executor, err := service.NewOrchestrator(
		provider.Registry,
		resolver,
		store,
		logger.WithFields(map[string]any{"component": "orchestrator"}),
		service.WithWorkersPerTier(cfg.Restore.WorkersPerTier),
		service.WithTimeouts(cfg.Restore.PrepareTimeout, cfg.Restore.AwaitTimeout),
	)
	if err != nil {
		return nil, err
	}

	reporter, err := buildReporter(cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Infof(ctx, "Application bootstrap complete")
	return &Application{
		Logger:   logger,
		Config:   cfg,
		Planner:  planner,
		Executor: executor,
		Reporter: reporter,
		Audit:    store,
	}, nil
}

func buildChecker(cfg config.ProtectionConfig) (*safety.Checker, error) {
	var rules []safety.Rule

	rules = append(rules, safety.TagOverrideRule{Keys: cfg.OverrideTagKeys})

	blocked := make([]domain.ResourceType, 0, len(cfg.BlockedTypes))
	for _, t := range cfg.BlockedTypes {
		blocked = append(blocked, domain.ResourceType(t))
	}
	rules = append(rules, safety.TypeBlocklistRule{Types: blocked})

	if cfg.MinimumAgeDays > 0 {
		rules = append(rules, safety.MinimumAgeRule{Grace: time.Duration(cfg.MinimumAgeDays) * 24 * time.Hour})
	}

	if cfg.CostCeiling != "" {
		limit, err := decimal.NewFromString(cfg.CostCeiling)
		if err != nil {
			return nil, errors.WrapUserFacing(err, errors.CodeConfigValidation,
				fmt.Sprintf("cost ceiling %q is not a decimal amount", cfg.CostCeiling),
				"Use a plain decimal such as \"250\" or \"99.50\".")
		}
		rules = append(rules, safety.CostCeilingRule{Limit: limit})
	}

	for _, cr := range cfg.CustomRules {
		rule, err := safety.CompileExprRule(cr.ID, cr.Expression)
		if err != nil {
			return nil, errors.WrapUserFacing(err, errors.CodeConfigValidation,
				fmt.Sprintf("custom protection rule %q does not compile", cr.ID),
				"Fix the expression; it must evaluate to a boolean.")
		}
		rules = append(rules, rule)
	}

	return safety.NewChecker(rules), nil
}

func buildReporter(cfg *config.Config, logger ports.Logger) (ports.Reporter, error) {
	switch cfg.Settings.ReporterType {
	case text.ReporterTypeText:
		textCfg := cfg.Settings.Reporter.Text
		if textCfg == nil {
			textCfg = config.DefaultConfig().Settings.Reporter.Text
		}
		return text.NewReporter(*textCfg, logger.WithFields(map[string]any{"component": "reporter", "type": text.ReporterTypeText}))
	case jsonreport.ReporterTypeJSON:
		jsonCfg := cfg.Settings.Reporter.JSON
		if jsonCfg == nil {
			jsonCfg = &jsonreport.Config{}
		}
		return jsonreport.NewReporter(*jsonCfg, logger.WithFields(map[string]any{"component": "reporter", "type": jsonreport.ReporterTypeJSON}))
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type: %s", cfg.Settings.ReporterType), "Supported: text, json")
	}
}

func loadAWSConfig(ctx context.Context, cfg config.AWSConfig) (awssdk.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, errors.WrapUserFacing(err, errors.CodePlatformAuthError,
			"failed to load AWS configuration",
			"Check AWS credentials, region and profile settings.")
	}
	return awsCfg, nil
}
