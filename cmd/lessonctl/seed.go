package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lesson-market/internal/models"
	"lesson-market/internal/mongodb"
)

var starterLessons = []models.Lesson{
	{Subject: "Math", Location: "London", Price: 15, Spaces: 8},
	{Subject: "English", Location: "Leeds", Price: 12, Spaces: 5},
	{Subject: "Science", Location: "Bristol", Price: 18, Spaces: 5},
	{Subject: "Art", Location: "London", Price: 10, Spaces: 5},
	{Subject: "Music", Location: "Oxford", Price: 20, Spaces: 5},
	{Subject: "PE", Location: "Bath", Price: 9, Spaces: 5},
	{Subject: "Coding", Location: "London", Price: 22, Spaces: 5},
	{Subject: "Robotics", Location: "Cardiff", Price: 25, Spaces: 5},
	{Subject: "Drama", Location: "Leeds", Price: 11, Spaces: 5},
	{Subject: "History", Location: "Manchester", Price: 14, Spaces: 5},
}

func newSeedCmd() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the lessons collection and insert the starter lessons",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, e, cleanup, err := setup(cmd, "lessonctl-seed")
			if err != nil {
				return err
			}
			defer cleanup()
			log := e.tel.Log

			handle := mongodb.NewHandle(e.cfg.MongoURI, e.cfg.DBName, log)
			connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			if _, err := handle.Connect(connectCtx); err != nil {
				log.Error("failed to connect to mongodb", zap.Error(err))
				return err
			}
			defer handle.Close(context.Background())

			inserted, err := mongodb.NewLessonRepository(handle, e.tel.Tracer).Seed(ctx, starterLessons, keep)
			if err != nil {
				log.Error("seed failed", zap.Error(err))
				return err
			}

			log.Info("inserted lessons",
				zap.Int("count", inserted),
				zap.Bool("kept_existing", keep),
				zap.String("db", e.cfg.DBName),
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "keep existing lessons instead of clearing the collection")
	return cmd
}
