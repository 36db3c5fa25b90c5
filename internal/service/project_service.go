package service

import (
	"context"
	"fmt"
	"time"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"
	"teamwork/internal/queue"
	"teamwork/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultProjectPageSize = 10
	maxProjectPageSize     = 50
)

// ProjectService handles business logic for project and phase operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	phaseRepo   repository.PhaseRepository
	taskRepo    repository.TaskRepository
	memberRepo  repository.TeamMemberRepository
	tx          repository.Transactor
	notifier    queue.Notifier
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projectRepo repository.ProjectRepository,
	phaseRepo repository.PhaseRepository,
	taskRepo repository.TaskRepository,
	memberRepo repository.TeamMemberRepository,
	tx repository.Transactor,
	notifier queue.Notifier,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		phaseRepo:   phaseRepo,
		taskRepo:    taskRepo,
		memberRepo:  memberRepo,
		tx:          tx,
		notifier:    notifier,
	}
}

// CreateProject creates a project in the team. Status defaults to active.
func (s *ProjectService) CreateProject(ctx context.Context, teamID, userID primitive.ObjectID, req *models.CreateProjectRequest) (*models.Project, error) {
	status := models.ProjectStatusActive
	if req.Status != "" {
		status = models.ProjectStatus(req.Status)
	}
	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	project := &models.Project{
		TeamID:      teamID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   userID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// ListProjects returns a page of the team's projects.
func (s *ProjectService) ListProjects(ctx context.Context, teamID primitive.ObjectID, params models.ProjectListParams) (*models.ProjectListResponse, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = defaultProjectPageSize
	}
	if params.Limit > maxProjectPageSize {
		params.Limit = maxProjectPageSize
	}

	projects, total, err := s.projectRepo.FindByTeamID(ctx, teamID, params)
	if err != nil {
		return nil, err
	}

	return &models.ProjectListResponse{
		Items:      projects,
		Pagination: models.NewPagination(params.Page, params.Limit, total),
	}, nil
}

// GetProject retrieves a project of the team.
func (s *ProjectService) GetProject(ctx context.Context, teamID, projectID primitive.ObjectID) (*models.Project, error) {
	return findTeamProject(ctx, s.projectRepo, teamID, projectID)
}

// UpdateProject updates a project and notifies the rest of the team.
func (s *ProjectService) UpdateProject(ctx context.Context, teamID, projectID, userID primitive.ObjectID, req *models.UpdateProjectRequest) (*models.Project, error) {
	project, err := findTeamProject(ctx, s.projectRepo, teamID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = models.ProjectStatus(*req.Status)
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if err := validateDateRange(project.StartDate, project.EndDate); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	if members, err := s.memberRepo.FindByTeamID(ctx, teamID); err == nil {
		notify(ctx, s.notifier, memberIDsExcept(members, userID), models.NotificationProjectUpdated,
			fmt.Sprintf("Project %q was updated", project.Name))
	}

	return project, nil
}

// DeleteProject removes a project with its phases and tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, teamID, projectID primitive.ObjectID) error {
	if _, err := findTeamProject(ctx, s.projectRepo, teamID, projectID); err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.taskRepo.DeleteAllByProjectID(ctx, projectID); err != nil {
			return err
		}
		if err := s.phaseRepo.DeleteAllByProjectID(ctx, projectID); err != nil {
			return err
		}
		return s.projectRepo.Delete(ctx, projectID)
	})
}

// ListPhases returns a project's phases by order.
func (s *ProjectService) ListPhases(ctx context.Context, teamID, projectID primitive.ObjectID) (*models.PhaseListResponse, error) {
	if _, err := findTeamProject(ctx, s.projectRepo, teamID, projectID); err != nil {
		return nil, err
	}

	phases, err := s.phaseRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &models.PhaseListResponse{Items: phases}, nil
}

// GetPhase retrieves one phase of a project.
func (s *ProjectService) GetPhase(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID) (*models.ProjectPhase, error) {
	return s.findProjectPhase(ctx, teamID, projectID, phaseID)
}

// CreatePhase adds a phase to a project.
func (s *ProjectService) CreatePhase(ctx context.Context, teamID, projectID primitive.ObjectID, req *models.CreatePhaseRequest) (*models.ProjectPhase, error) {
	if _, err := findTeamProject(ctx, s.projectRepo, teamID, projectID); err != nil {
		return nil, err
	}
	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	phase := &models.ProjectPhase{
		TeamID:      teamID,
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if req.Order != nil {
		phase.Order = *req.Order
	}
	if err := s.phaseRepo.Create(ctx, phase); err != nil {
		return nil, err
	}

	return phase, nil
}

// UpdatePhase updates the provided fields of a phase.
func (s *ProjectService) UpdatePhase(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID, req *models.UpdatePhaseRequest) (*models.ProjectPhase, error) {
	phase, err := s.findProjectPhase(ctx, teamID, projectID, phaseID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		phase.Name = *req.Name
	}
	if req.Description != nil {
		phase.Description = *req.Description
	}
	if req.StartDate != nil {
		phase.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		phase.EndDate = req.EndDate
	}
	if req.Order != nil {
		phase.Order = *req.Order
	}
	if err := validateDateRange(phase.StartDate, phase.EndDate); err != nil {
		return nil, err
	}

	if err := s.phaseRepo.Update(ctx, phase); err != nil {
		return nil, err
	}

	return phase, nil
}

// DeletePhase removes a phase. Its tasks stay in the project without a
// phase.
func (s *ProjectService) DeletePhase(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID) error {
	if _, err := s.findProjectPhase(ctx, teamID, projectID, phaseID); err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.taskRepo.ClearPhase(ctx, phaseID); err != nil {
			return err
		}
		return s.phaseRepo.Delete(ctx, phaseID)
	})
}

func (s *ProjectService) findProjectPhase(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID) (*models.ProjectPhase, error) {
	if _, err := findTeamProject(ctx, s.projectRepo, teamID, projectID); err != nil {
		return nil, err
	}
	return findProjectPhase(ctx, s.phaseRepo, projectID, phaseID)
}

// findTeamProject loads a project and hides projects of other teams.
func findTeamProject(ctx context.Context, repo repository.ProjectRepository, teamID, projectID primitive.ObjectID) (*models.Project, error) {
	project, err := repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.TeamID != teamID {
		return nil, apperrors.ErrProjectNotFound
	}
	return project, nil
}

// findProjectPhase loads a phase and hides phases of other projects.
func findProjectPhase(ctx context.Context, repo repository.PhaseRepository, projectID, phaseID primitive.ObjectID) (*models.ProjectPhase, error) {
	phase, err := repo.FindByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	if phase.ProjectID != projectID {
		return nil, apperrors.ErrPhaseNotFound
	}
	return phase, nil
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperrors.ErrInvalidDateRange
	}
	return nil
}
