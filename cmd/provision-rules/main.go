// provision-rules creates or deletes the EventBridge cron rules that
// trigger the invoicing lambdas.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"ieutils/infrastructure/awsclients"
	"ieutils/infrastructure/config"
	"ieutils/infrastructure/scheduling/eventbridge"
	"ieutils/pkg/observability"
)

func main() {
	var (
		name        = flag.String("name", "", "rule name")
		schedule    = flag.String("schedule", "", "schedule expression, e.g. cron(0 6 * * ? *)")
		description = flag.String("description", "", "rule description")
		targetARN   = flag.String("target", "", "target lambda ARN")
		roleARN     = flag.String("role", "", "IAM role ARN for rule invocation")
		input       = flag.String("input", "", "constant JSON input passed to the target")
		remove      = flag.Bool("delete", false, "delete the rule instead of creating it")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	observability.InitSentry(cfg, logger)
	defer observability.FlushSentry(2 * time.Second)

	awsCfg, err := awsclients.Load(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", zap.Error(err))
	}

	metrics := observability.NewRecorder(awsclients.NewCloudWatch(awsCfg), cfg.MetricsNamespace, logger)
	provisioner := eventbridge.NewProvisioner(awsclients.NewEventBridge(awsCfg), logger, metrics)

	if *remove {
		if err := provisioner.DeleteRule(ctx, *name); err != nil {
			observability.CaptureException(err)
			observability.FlushSentry(2 * time.Second)
			logger.Fatal("Failed to delete rule", zap.String("rule", *name), zap.Error(err))
		}
		return
	}

	ruleARN, err := provisioner.EnsureRule(ctx, eventbridge.RuleSpec{
		Name:        *name,
		Schedule:    *schedule,
		Description: *description,
		TargetARN:   *targetARN,
		RoleARN:     *roleARN,
		Input:       *input,
	})
	if err != nil {
		observability.CaptureException(err)
		observability.FlushSentry(2 * time.Second)
		logger.Fatal("Failed to provision rule", zap.String("rule", *name), zap.Error(err))
	}

	logger.Info("Rule ready", zap.String("rule", *name), zap.String("arn", ruleARN))
}
