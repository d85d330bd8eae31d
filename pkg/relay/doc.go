// Package relay is the HTTP service between front ends and the upstream
// chat-completion API. It owns the single API key, so clients never see it,
// and forwards each solve request together with its conversation history.
//
// Routes (relative to the configured base path):
//
//	GET    /health            liveness probe
//	POST   /api-key           store the upstream key
//	DELETE /api-key           remove the stored key
//	GET    /api-key/:userId   report whether a key is configured
//	POST   /solve-task        forward a task to the model
//
// Every error reply is a JSON object with an "error" string. A missing key
// additionally carries "code": "credential_missing".
package relay
