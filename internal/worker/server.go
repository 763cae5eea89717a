// Package worker запускает фоновую обработку задач: asynq-сервер
// исполняет задачи, планировщик ставит периодическую очистку комнат.
package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/storyweaver/internal/service"
	"github.com/thereayou/storyweaver/internal/tasks"
)

// Server оборачивает запуск и остановку asynq Server + Scheduler.
type Server struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	cleanup   *service.CleanupService
	log       *logrus.Entry
}

// NewServer настраивает воркер и планировщик на общем Redis.
// cleanupCron — расписание задачи room:cleanup, ttlHours — её порог.
func NewServer(redisOpt asynq.RedisConnOpt, cleanup *service.CleanupService, cleanupCron string, ttlHours int) (*Server, error) {
	logEntry := logrus.WithField("component", "worker")

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logEntry.WithField("task_type", task.Type()).Errorf("Task failed: %v", err)
		}),
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})

	cleanupTask, err := tasks.NewRoomCleanupTask(ttlHours)
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.Register(cleanupCron, cleanupTask); err != nil {
		return nil, err
	}

	return &Server{
		server:    server,
		scheduler: scheduler,
		cleanup:   cleanup,
		log:       logEntry,
	}, nil
}

// Start запускает воркер и планировщик. Вызывается в отдельных горутинах.
func (s *Server) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRoomCleanup, NewRoomCleanupHandler(s.cleanup).ProcessTask)

	go func() {
		s.log.Info("Scheduler starting...")
		if err := s.scheduler.Run(); err != nil {
			s.log.Fatalf("Could not run scheduler: %v", err)
		}
	}()

	s.log.Info("Worker server starting...")
	if err := s.server.Run(mux); err != nil {
		if !errors.Is(err, asynq.ErrServerClosed) {
			s.log.Fatalf("Could not run worker server: %v", err)
		}
	}
}

// Shutdown останавливает воркер и планировщик.
func (s *Server) Shutdown() {
	s.log.Info("Shutting down worker...")
	s.scheduler.Shutdown()
	s.server.Shutdown()
}
