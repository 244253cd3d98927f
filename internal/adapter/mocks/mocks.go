// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockModelStore is a mock of adapter.ModelStore.
type MockModelStore struct {
	mock.Mock
}

// Load mocks ModelStore.Load.
func (_m *MockModelStore) Load(ctx context.Context, path m.Path) (m.Catalog, error) {
	ret := _m.Called(ctx, path)

	return ret.Get(0).(m.Catalog), ret.Error(1)
}

// MockArtifactStore is a mock of adapter.ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

// Save mocks ArtifactStore.Save.
func (_m *MockArtifactStore) Save(ctx context.Context, path m.Path, content []byte) (m.Artifact, error) {
	ret := _m.Called(ctx, path, content)

	return ret.Get(0).(m.Artifact), ret.Error(1)
}

// MockGenerator is a mock of adapter.Generator.
type MockGenerator struct {
	mock.Mock
}

// Generate mocks Generator.Generate.
func (_m *MockGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	ret := _m.Called(ctx, prompt, temperature)

	return ret.String(0), ret.Error(1)
}
