// Package chats provides the conversation data model shared by the task solver
// front ends, the assembler, and the relay.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/tasksolver/pkg/chats/role]: conversation roles (system, user, assistant)
//   - [github.com/germanamz/tasksolver/pkg/chats/content]: content parts (text, image)
//   - [github.com/germanamz/tasksolver/pkg/chats/message]: turns composed of a role and content parts
//   - [github.com/germanamz/tasksolver/pkg/chats/chat]: append-only conversation container
//
// No provider or wire-format code is included; see the assembler package for
// the provider message mapping.
package chats
