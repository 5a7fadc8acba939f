// Package testutil provides utilities for testing dotmgr components.
//
// Key components:
//   - TestEnvironment: home, stage and repository directories in a temp dir
//   - MockRepository: testify mock of repository.Repository
//
// Each test gets its own environment; nothing is shared between tests.
package testutil
