package resource

import (
	"context"

	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/oneee-playground/crackdash/internal/tool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Client interface {
	CreateResource(ctx context.Context, manager string, params map[string]string) error
	UpdateResource(ctx context.Context, id string, status Status) error
	DeleteResource(ctx context.Context, id string) error
	ListResourceManagers(ctx context.Context) ([]Manager, error)
	GetResourceManager(ctx context.Context, id string) (Manager, error)
}

type serverMessager interface {
	ServerMessage() string
}

// serverMessage prefers the text the queue server sent along with err.
func serverMessage(err error) string {
	var sm serverMessager
	if errors.As(err, &sm) && sm.ServerMessage() != "" {
		return sm.ServerMessage()
	}
	return err.Error()
}

var (
	connectMessages = notify.Messages{
		Status: map[int]notify.Message{
			400: {Level: notify.LevelError, Text: "You sent bad data, check your input and if it's correct get in touch with us on github"},
			403: {Level: notify.LevelError, Text: "You're not allowed to do that..."},
		},
		Default: func(err error) notify.Message {
			return notify.Message{Level: notify.LevelError, Text: serverMessage(err)}
		},
	}

	managerMessages = notify.Messages{
		Default: func(err error) notify.Message {
			return notify.Message{
				Level: notify.LevelError,
				Text:  "Unable to load resource manager parameters: " + serverMessage(err),
			}
		},
	}

	changeMessages = notify.Messages{
		Status: map[int]notify.Message{
			400: {Level: notify.LevelError, Text: "You sent bad data, check your input and if it's correct get in touch with us on github"},
			403: {Level: notify.LevelWarning, Text: "You're not allowed to do that..."},
			404: {Level: notify.LevelError, Text: "That resource was not found."},
			500: {Level: notify.LevelError, Text: "An internal server error occured while trying to update the resource."},
		},
	}
)

// Service runs operator actions against resources and keeps the
// registry in step with them.
type Service struct {
	log      *zap.Logger
	client   Client
	registry *Registry
	notifier notify.Publisher
}

func NewService(log *zap.Logger, client Client, registry *Registry, notifier notify.Publisher) *Service {
	return &Service{
		log:      log,
		client:   client,
		registry: registry,
		notifier: notifier,
	}
}

func (s *Service) Managers(ctx context.Context) ([]Manager, error) {
	managers, err := s.client.ListResourceManagers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching resource managers")
	}
	return managers, nil
}

// Manager loads one resource manager with its connect form.
func (s *Service) Manager(ctx context.Context, id string) (Manager, error) {
	m, err := s.client.GetResourceManager(ctx, id)
	if err != nil {
		notify.Report(s.notifier, managerMessages, err)
		return Manager{}, errors.Wrapf(err, "fetching resource manager %s", id)
	}

	if m.Schema, err = tool.SortEnums(m.Schema); err != nil {
		return Manager{}, err
	}
	if m.Form, err = tool.SortEnums(m.Form); err != nil {
		return Manager{}, err
	}

	return m, nil
}

// Connect asks a manager to bring up a new resource. params are checked
// against the manager's schema first.
func (s *Service) Connect(ctx context.Context, managerID string, params map[string]string) error {
	m, err := s.Manager(ctx, managerID)
	if err != nil {
		return err
	}

	if err := tool.ValidateParams(tool.Tool{ID: m.ID, Name: m.Name, Schema: m.Schema}, params); err != nil {
		s.notifier.Publish(notify.LevelError, err.Error())
		return errors.Wrap(err, "validating params")
	}

	if err := s.client.CreateResource(ctx, managerID, params); err != nil {
		notify.Report(s.notifier, connectMessages, err)
		return errors.Wrap(err, "connecting resource")
	}

	s.log.Info("resource connect requested", zap.String("manager", managerID))
	s.notifier.Publish(notify.LevelSuccess, "Successfully submitted resource connection request.")

	// New resources only show up on a full load.
	if err := s.registry.Load(ctx); err != nil {
		s.log.Warn("reloading resources", zap.Error(err))
	}

	return nil
}

func (s *Service) Pause(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, StatusPaused)
}

func (s *Service) Resume(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, StatusRunning)
}

func (s *Service) setStatus(ctx context.Context, id string, status Status) error {
	if err := s.client.UpdateResource(ctx, id, status); err != nil {
		notify.Report(s.notifier, changeMessages, err)
		return errors.Wrapf(err, "setting resource %s to %s", id, status)
	}

	if err := s.registry.Update(ctx); err != nil {
		s.log.Warn("updating resources", zap.Error(err))
	}
	return nil
}

// Disconnect removes the resource from the queue.
func (s *Service) Disconnect(ctx context.Context, id string) error {
	if err := s.client.DeleteResource(ctx, id); err != nil {
		notify.Report(s.notifier, changeMessages, err)
		return errors.Wrapf(err, "disconnecting resource %s", id)
	}

	s.notifier.Publish(notify.LevelSuccess, "Resource disconnected.")

	if err := s.registry.Load(ctx); err != nil {
		s.log.Warn("reloading resources", zap.Error(err))
	}
	return nil
}
