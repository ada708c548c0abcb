// Package mocks provides mock implementations for testing the notes service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the ports interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	users := mocks.NewMockUserStore(ctrl)
//	users.EXPECT().FindByID(gomock.Any(), int64(1)).Return(user, nil)
package mocks

// Generate mocks for the auth gate ports. This creates MockUserStore,
// MockNoteStore, MockTokenCodec, and MockPasswordHasher.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/scribbly/notes-api/internal/ports UserStore,NoteStore,TokenCodec,PasswordHasher
