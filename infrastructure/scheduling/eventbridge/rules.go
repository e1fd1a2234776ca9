// Package eventbridge provisions the scheduled rules that trigger the
// invoicing lambdas: an idempotent upsert of a cron rule plus its target,
// and the matching teardown.
package eventbridge

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	apperrors "ieutils/pkg/errors"
	"ieutils/pkg/observability"
	"ieutils/pkg/validate"
)

// API is the subset of the EventBridge client used by the provisioner
type API interface {
	PutRule(ctx context.Context, params *eventbridge.PutRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutRuleOutput, error)
	PutTargets(ctx context.Context, params *eventbridge.PutTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutTargetsOutput, error)
	RemoveTargets(ctx context.Context, params *eventbridge.RemoveTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.RemoveTargetsOutput, error)
	DeleteRule(ctx context.Context, params *eventbridge.DeleteRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DeleteRuleOutput, error)
}

// ruleTargetID is the fixed target id used for the single target each
// scheduled rule carries
const ruleTargetID = "1"

// RuleSpec describes one scheduled rule
type RuleSpec struct {
	Name        string `validate:"required,max=64"`
	Schedule    string `validate:"required"` // cron(...) or rate(...) expression
	Description string
	TargetARN   string `validate:"required"`
	RoleARN     string
	Input       string // optional constant JSON passed to the target
}

// Provisioner creates and removes scheduled rules
type Provisioner struct {
	api     API
	logger  *zap.Logger
	metrics *observability.Recorder
}

// NewProvisioner creates a Provisioner. The metrics recorder may be nil.
func NewProvisioner(api API, logger *zap.Logger, metrics *observability.Recorder) *Provisioner {
	return &Provisioner{
		api:     api,
		logger:  logger,
		metrics: metrics,
	}
}

// EnsureRule creates or updates the rule and attaches its target,
// returning the rule ARN. PutRule is an upsert, so repeated calls with the
// same spec are safe.
func (p *Provisioner) EnsureRule(ctx context.Context, spec RuleSpec) (string, error) {
	if err := validate.Struct(spec); err != nil {
		return "", apperrors.NewValidationError(err.Error())
	}

	ruleInput := &eventbridge.PutRuleInput{
		Name:               aws.String(spec.Name),
		ScheduleExpression: aws.String(spec.Schedule),
		State:              types.RuleStateEnabled,
	}
	if spec.Description != "" {
		ruleInput.Description = aws.String(spec.Description)
	}
	if spec.RoleARN != "" {
		ruleInput.RoleArn = aws.String(spec.RoleARN)
	}

	ruleResult, err := p.api.PutRule(ctx, ruleInput)
	if err != nil {
		p.metrics.Count(ctx, "RuleProvisionFailed", 1, map[string]string{"Rule": spec.Name})
		return "", apperrors.NewExternalError("eventbridge put rule", err)
	}

	target := types.Target{
		Id:  aws.String(ruleTargetID),
		Arn: aws.String(spec.TargetARN),
	}
	if spec.Input != "" {
		target.Input = aws.String(spec.Input)
	}
	if spec.RoleARN != "" {
		target.RoleArn = aws.String(spec.RoleARN)
	}

	targetsResult, err := p.api.PutTargets(ctx, &eventbridge.PutTargetsInput{
		Rule:    aws.String(spec.Name),
		Targets: []types.Target{target},
	})
	if err != nil {
		p.metrics.Count(ctx, "RuleProvisionFailed", 1, map[string]string{"Rule": spec.Name})
		return "", apperrors.NewExternalError("eventbridge put targets", err)
	}
	if targetsResult.FailedEntryCount > 0 {
		for _, entry := range targetsResult.FailedEntries {
			p.logger.Error("Failed to attach rule target",
				zap.String("rule", spec.Name),
				zap.String("targetId", aws.ToString(entry.TargetId)),
				zap.String("errorCode", aws.ToString(entry.ErrorCode)),
				zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
			)
		}
		p.metrics.Count(ctx, "RuleProvisionFailed", 1, map[string]string{"Rule": spec.Name})
		return "", apperrors.NewExternalError("eventbridge put targets",
			fmt.Errorf("%d target entries failed", targetsResult.FailedEntryCount))
	}

	p.logger.Info("Provisioned scheduled rule",
		zap.String("rule", spec.Name),
		zap.String("schedule", spec.Schedule),
		zap.String("target", spec.TargetARN),
	)
	return aws.ToString(ruleResult.RuleArn), nil
}

// DeleteRule detaches the rule's target and deletes the rule
func (p *Provisioner) DeleteRule(ctx context.Context, name string) error {
	_, err := p.api.RemoveTargets(ctx, &eventbridge.RemoveTargetsInput{
		Rule: aws.String(name),
		Ids:  []string{ruleTargetID},
	})
	if err != nil {
		return apperrors.NewExternalError("eventbridge remove targets", err)
	}

	_, err = p.api.DeleteRule(ctx, &eventbridge.DeleteRuleInput{
		Name: aws.String(name),
	})
	if err != nil {
		return apperrors.NewExternalError("eventbridge delete rule", err)
	}

	p.logger.Info("Deleted scheduled rule", zap.String("rule", name))
	return nil
}
