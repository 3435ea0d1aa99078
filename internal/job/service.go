package job

import (
	"context"

	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Client interface {
	GetJob(ctx context.Context, id string) (Detail, error)
	CreateJob(ctx context.Context, name, toolID string, params map[string]string) (id string, err error)
	JobAction(ctx context.Context, id string, action Action) (Job, error)
	DeleteJob(ctx context.Context, id string) error
}

type ParamValidator interface {
	ValidateParams(ctx context.Context, toolID string, params map[string]string) error
}

// Service runs operator actions against single jobs.
type Service struct {
	log       *zap.Logger
	client    Client
	validator ParamValidator
	board     *Board
	notifier  notify.Publisher
}

func NewService(
	log *zap.Logger, client Client, validator ParamValidator,
	board *Board, notifier notify.Publisher,
) *Service {
	return &Service{
		log:       log,
		client:    client,
		validator: validator,
		board:     board,
		notifier:  notifier,
	}
}

func (s *Service) Submit(ctx context.Context, name, toolID string, params map[string]string) (string, error) {
	if err := s.validator.ValidateParams(ctx, toolID, params); err != nil {
		s.notifier.Publish(notify.LevelError, err.Error())
		return "", errors.Wrap(err, "validating params")
	}

	id, err := s.client.CreateJob(ctx, name, toolID, params)
	if err != nil {
		notify.Report(s.notifier, submitMessages, err)
		return "", errors.Wrap(err, "creating job")
	}

	s.log.Info("job submitted", zap.String("jobID", id), zap.String("toolID", toolID))
	s.notifier.Publish(notify.LevelSuccess, "Job successfully added")

	return id, nil
}

func (s *Service) Pause(ctx context.Context, id string) error {
	return s.act(ctx, id, ActionPause)
}

func (s *Service) Resume(ctx context.Context, id string) error {
	return s.act(ctx, id, ActionResume)
}

func (s *Service) Stop(ctx context.Context, id string) error {
	return s.act(ctx, id, ActionStop)
}

func (s *Service) act(ctx context.Context, id string, action Action) error {
	if _, err := s.client.JobAction(ctx, id, action); err != nil {
		notify.Report(s.notifier, updateMessages, err)
		return errors.Wrapf(err, "requesting %s", action)
	}

	s.log.Info("job action sent", zap.String("jobID", id), zap.String("action", string(action)))
	return nil
}

// Delete removes the job on the server and then from the board.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteJob(ctx, id); err != nil {
		notify.Report(s.notifier, updateMessages, err)
		return errors.Wrap(err, "deleting job")
	}

	s.board.Remove(id)
	s.notifier.Publish(notify.LevelSuccess, "Job deleted.")

	return nil
}

func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	d, err := s.client.GetJob(ctx, id)
	if err != nil {
		return Detail{}, errors.Wrap(err, "fetching job detail")
	}
	return d, nil
}
