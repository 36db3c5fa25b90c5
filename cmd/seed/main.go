package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"teamwork/internal/config"
	"teamwork/internal/database"
	"teamwork/internal/models"
	"teamwork/internal/repository"
	"teamwork/pkg/auth"
	"teamwork/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// collections are cleared before seeding.
var collections = []string{
	"users", "teams", "team_members", "channels", "messages", "notifications", "projects", "tasks",
}

type seedUser struct {
	name     string
	email    string
	password string
	role     models.Role
}

var users = []seedUser{
	{name: "Alice Johnson", email: "alice@example.com", password: "password123", role: models.RoleAdmin},
	{name: "Bob Smith", email: "bob@example.com", password: "password456", role: models.RoleMember},
	{name: "Carol White", email: "carol@example.com", password: "password789", role: models.RoleGuest},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.LogLevel)

	ctx := context.Background()
	mongoDB, err := database.NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer mongoDB.Close()

	if err := seed(ctx, mongoDB.Database, log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("seed completed")
}

func seed(ctx context.Context, db *mongo.Database, log *slog.Logger) error {
	for _, name := range collections {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	if _, err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	ids := make([]primitive.ObjectID, len(users))
	for i, u := range users {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := &models.User{Name: u.name, Email: u.email, Password: hash}
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user %s: %w", u.email, err)
		}
		ids[i] = user.ID
	}
	log.Info("seeded users", "count", len(ids))

	team := &models.Team{Name: "Launch Crew", Description: "Product launch team", CreatedBy: ids[0]}
	if err := teamRepo.Create(ctx, team); err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	for i, u := range users {
		if err := memberRepo.Create(ctx, &models.TeamMember{TeamID: team.ID, UserID: ids[i], Role: u.role}); err != nil {
			return fmt.Errorf("add member %s: %w", u.email, err)
		}
	}
	log.Info("seeded team", "team", team.Name, "members", len(users))

	channel := &models.Channel{TeamID: team.ID, Name: "general", Description: "Team-wide chat", Type: models.ChannelTypeGroup, CreatedBy: ids[0]}
	if err := channelRepo.Create(ctx, channel); err != nil {
		return fmt.Errorf("create channel: %w", err)
	}
	for i, content := range []string{"Welcome aboard!", "Thanks, happy to be here.", "Kickoff is Monday at 10."} {
		msg := &models.Message{
			ChannelID: channel.ID,
			TeamID:    team.ID,
			SenderID:  ids[i%2],
			Content:   content,
			Status:    models.MessageStatusDelivered,
		}
		if err := messageRepo.Create(ctx, msg); err != nil {
			return fmt.Errorf("create message: %w", err)
		}
	}

	start := time.Now().Truncate(24 * time.Hour)
	end := start.Add(60 * 24 * time.Hour)
	project := &models.Project{
		TeamID:      team.ID,
		Name:        "Website relaunch",
		Description: "New marketing site",
		Status:      models.ProjectStatusActive,
		StartDate:   &start,
		EndDate:     &end,
		CreatedBy:   ids[0],
	}
	if err := projectRepo.Create(ctx, project); err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	due := start.Add(14 * 24 * time.Hour)
	parent := &models.Task{
		TeamID:     team.ID,
		ProjectID:  project.ID,
		Title:      "Design landing page",
		Status:     models.TaskStatusInProgress,
		Priority:   models.TaskPriorityHigh,
		DueDate:    &due,
		AssignedTo: &ids[1],
		CreatedBy:  ids[0],
	}
	if err := taskRepo.Create(ctx, parent); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	for _, title := range []string{"Hero section copy", "Pick screenshots"} {
		sub := &models.Task{
			TeamID:       team.ID,
			ProjectID:    project.ID,
			ParentTaskID: &parent.ID,
			Title:        title,
			Status:       models.TaskStatusTodo,
			Priority:     models.TaskPriorityMedium,
			CreatedBy:    ids[1],
		}
		if err := taskRepo.Create(ctx, sub); err != nil {
			return fmt.Errorf("create subtask: %w", err)
		}
	}
	log.Info("seeded project", "project", project.Name, "tasks", 3)

	return nil
}
