// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/DevOps-MBSE/aac-doc-mdl/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow that asserts its expectations when
// the test finishes.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	m := &MockWorkflow{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Outline mocks Workflow.Outline.
func (_m *MockWorkflow) Outline(ctx context.Context, args domain.DocumentArgs) error {
	return _m.Called(ctx, args).Error(0)
}

// Draft mocks Workflow.Draft.
func (_m *MockWorkflow) Draft(ctx context.Context, args domain.DocumentArgs) error {
	return _m.Called(ctx, args).Error(0)
}

// Vcrm mocks Workflow.Vcrm.
func (_m *MockWorkflow) Vcrm(ctx context.Context, args domain.VcrmArgs) error {
	return _m.Called(ctx, args).Error(0)
}
