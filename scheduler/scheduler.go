package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"estate_browser/config"
	"estate_browser/models"
)

// Syncer runs one catalog sync
type Syncer interface {
	Run(ctx context.Context) (*models.SyncRun, error)
}

// CommandQueue is the table the CLI drops commands into
type CommandQueue interface {
	GetPendingCommands(ctx context.Context) ([]models.Command, error)
	MarkCommandProcessed(ctx context.Context, id int64) error
}

// Invalidator drops cached catalog data
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Scheduler struct {
	cfg      config.SyncConfig
	syncer   Syncer
	commands CommandQueue
	cache    Invalidator
	cron     *cron.Cron
	ticker   *time.Ticker
	stopCh   chan struct{}
	stopOnce sync.Once

	// serializes sync runs from cron, ticker and commands
	running sync.Mutex

	pollInterval time.Duration
}

// New creates a Scheduler. commands and cache may be nil.
func New(cfg config.SyncConfig, syncer Syncer, commands CommandQueue, cache Invalidator) *Scheduler {
	return &Scheduler{
		cfg:          cfg,
		syncer:       syncer,
		commands:     commands,
		cache:        cache,
		cron:         cron.New(),
		stopCh:       make(chan struct{}),
		pollInterval: 2 * time.Second,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.commands != nil {
		go s.pollCommands(ctx)
	}

	if s.syncer == nil {
		log.Println("No sync source configured, scheduler will only handle cache commands")
		return nil
	}

	if s.cfg.Cron != "" {
		log.Printf("Starting sync scheduler with cron: %s", s.cfg.Cron)
		_, err := s.cron.AddFunc(s.cfg.Cron, func() {
			if err := s.TriggerNow(ctx); err != nil {
				log.Printf("Scheduled sync error: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Interval > 0 {
		log.Printf("Starting sync scheduler with interval: %s", s.cfg.Interval)
		s.ticker = time.NewTicker(s.cfg.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					if err := s.TriggerNow(ctx); err != nil {
						log.Printf("Scheduled sync error: %v", err)
					}
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("No sync schedule configured, syncing only on command")
	}

	return nil
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.cron != nil {
			<-s.cron.Stop().Done()
		}
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
	})
}

// TriggerNow runs a sync unless one is already in progress
func (s *Scheduler) TriggerNow(ctx context.Context) error {
	if s.syncer == nil {
		return fmt.Errorf("no sync source configured")
	}
	if !s.running.TryLock() {
		log.Println("Sync already running, skipping")
		return nil
	}
	defer s.running.Unlock()

	_, err := s.syncer.Run(ctx)
	return err
}

func (s *Scheduler) pollCommands(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cmds, err := s.commands.GetPendingCommands(ctx)
			if err != nil {
				log.Printf("Error getting commands: %v", err)
				continue
			}

			for _, cmd := range cmds {
				log.Printf("Processing command: %s", cmd.Command)
				if err := s.handleCommand(ctx, &cmd); err != nil {
					log.Printf("Command error: %v", err)
				}
				if err := s.commands.MarkCommandProcessed(ctx, cmd.ID); err != nil {
					log.Printf("Error marking command processed: %v", err)
				}
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) handleCommand(ctx context.Context, cmd *models.Command) error {
	switch cmd.Command {
	case models.CmdSyncNow:
		return s.TriggerNow(ctx)
	case models.CmdInvalidateCache:
		if s.cache == nil {
			return nil
		}
		if err := s.cache.Invalidate(ctx); err != nil {
			return err
		}
		log.Println("Listing cache invalidated via command")
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd.Command)
	}
}
