// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"context"

	"github.com/DevOps-MBSE/aac-doc-mdl/internal/controller"
	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockUI is a mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// Start mocks UI.Start.
func (_m *MockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	ret := _m.Called(ctx, options)

	return ret.Error(0)
}

// Close mocks UI.Close.
func (_m *MockUI) Close(ctx context.Context) {
	_m.Called(ctx)
}

// DisplaySectionStarted mocks UI.DisplaySectionStarted.
func (_m *MockUI) DisplaySectionStarted(ctx context.Context, title string, depth int) {
	_m.Called(ctx, title, depth)
}

// DisplaySectionCompleted mocks UI.DisplaySectionCompleted.
func (_m *MockUI) DisplaySectionCompleted(ctx context.Context, title string, depth int) {
	_m.Called(ctx, title, depth)
}

// DisplayIssue mocks UI.DisplayIssue.
func (_m *MockUI) DisplayIssue(ctx context.Context, issue m.Issue) {
	_m.Called(ctx, issue)
}

// DisplayArtifacts mocks UI.DisplayArtifacts.
func (_m *MockUI) DisplayArtifacts(ctx context.Context, artifacts []m.Artifact) {
	_m.Called(ctx, artifacts)
}

// DisplayCoverage mocks UI.DisplayCoverage.
func (_m *MockUI) DisplayCoverage(ctx context.Context, vcrm m.VCRM, uncovered []string) {
	_m.Called(ctx, vcrm, uncovered)
}
