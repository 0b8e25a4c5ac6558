package service

import (
	"github.com/centavo/centavo-backend/internal/domain"
)

// WorkspaceService provides workspace tenancy reads. Workspace membership is
// managed by the upstream auth proxy; this service only resolves records.
type WorkspaceService struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(workspaceRepo domain.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo}
}

// GetWorkspace returns the workspace record for the current tenant
func (s *WorkspaceService) GetWorkspace(workspaceID int32) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByID(workspaceID)
}
