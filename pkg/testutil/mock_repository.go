package testutil

import (
	"github.com/arthur-debert/dotmgr/pkg/repository"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a testify mock of repository.Repository
type MockRepository struct {
	mock.Mock
	Root string
}

var _ repository.Repository = (*MockRepository)(nil)

// NewMockRepository creates a MockRepository rooted at root
func NewMockRepository(root string) *MockRepository {
	return &MockRepository{Root: root}
}

func (m *MockRepository) Path() string {
	return m.Root
}

func (m *MockRepository) Clone(url string) error {
	args := m.Called(url)
	return args.Error(0)
}

func (m *MockRepository) Init(tagConfigRel, hostname string) error {
	args := m.Called(tagConfigRel, hostname)
	return args.Error(0)
}

func (m *MockRepository) Add(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockRepository) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockRepository) Update(path, message string) error {
	args := m.Called(path, message)
	return args.Error(0)
}

func (m *MockRepository) Pull() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepository) Push() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepository) Execute(cmdArgs []string) (string, error) {
	args := m.Called(cmdArgs)
	return args.String(0), args.Error(1)
}
