package catalog

import (
	"github.com/stretchr/testify/mock"
)

// MockCatalog mocks the InstallerCatalog interface
type MockCatalog struct {
	mock.Mock
}

// Installers mocks the Installers method
func (m *MockCatalog) Installers(system, arch, version string, preferLatest bool) ([]string, error) {
	args := m.Called(system, arch, version, preferLatest)
	var paths []string
	if v := args.Get(0); v != nil {
		paths = v.([]string)
	}
	return paths, args.Error(1)
}
