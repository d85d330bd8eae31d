// Package assembler turns a conversation plus a new user turn into a relay
// request and the relay's reply into an assistant turn.
//
// It contains:
//   - [BuildHistoryPayload] and [ToProviderMessage], the turn to
//     chat-completion mapping shared with the relay server
//   - [Assembler.BuildRequest], which appends the language directive
//   - [Submitter], which calls the relay and classifies failures into
//     [*SubmitError] kinds
//   - [Session], the Idle/Sending lifecycle around one conversation
package assembler
