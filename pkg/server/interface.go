/*
Package server exposes the suggestion engine over msgpack IPC and JSON HTTP.

The IPC side provides a minimal interface for ranked term suggestions using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports suggestion requests, corpus reloads and health probes.
Messages are processed synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send structured messages via stdin and receive responses through stdout.
Each message contains an ID field, an op selector and other fields based on the operation type.

Suggestion requests use mainly this structure:

	{"id": "req_001", "q": "tran", "l": 10}

An omitted op means "suggest". The server responds with terms ranked by citation weight:

	{"id": "req_001", "s": [{"w": "Transformer", "c": 50, "r": 1}, {"w": "transformers", "c": 10, "r": 2}], "c": 2, "t": 145}

Corpus management enables rebuilding the loaded snapshot at runtime:

	{"id": "load_01", "op": "reload"}
	{"id": "probe_1", "op": "health"}

Response structures include status information and error details when an op fail.

# Message Types

SuggestRequest and SuggestResponse handle the main prefix ranking.
Requests include a query string and optional limit for result count.
Responses contain suggestion arrays with display terms, citation weights and rank positions, plus timing data.

ReloadResponse reports the outcome of a corpus rebuild: document and term counts on success, an error string otherwise.
A failed rebuild keeps the previous snapshot live.

HealthResponse carries the published snapshot's document and term counts plus the source it was loaded from.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and reducing latency in editor round trips.

The HTTP side mirrors the same operations as JSON endpoints with CORS headers, plus the document
and analytics surfaces the original backend served; see Handler.
*/
package server

// Ops accepted in SuggestRequest.Op.
const (
	OpSuggest = "suggest"
	OpReload  = "reload"
	OpHealth  = "health"
)

// SuggestRequest - minimal suggestion request
type SuggestRequest struct {
	ID    string `msgpack:"id"`
	Op    string `msgpack:"op,omitempty"`
	Query string `msgpack:"q,omitempty"`
	Limit int    `msgpack:"l,omitempty"`
}

// SuggestEntry - minimal ranked term
type SuggestEntry struct {
	Term      string `msgpack:"w"`
	Citations int    `msgpack:"c"`
	Rank      uint16 `msgpack:"r"`
}

// SuggestResponse - suggestion response
type SuggestResponse struct {
	ID          string         `msgpack:"id"`
	Suggestions []SuggestEntry `msgpack:"s"`
	Count       int            `msgpack:"c"`
	TimeTaken   int64          `msgpack:"t"`
}

// ReloadResponse - corpus rebuild outcome
type ReloadResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
	Docs   int    `msgpack:"docs,omitempty"`
	Terms  int    `msgpack:"terms,omitempty"`
	Source string `msgpack:"source,omitempty"`
}

// HealthResponse - live snapshot probe
type HealthResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Docs   int    `msgpack:"docs"`
	Terms  int    `msgpack:"terms"`
	Source string `msgpack:"source,omitempty"`
}

// SuggestError holds basic error information for failed requests
type SuggestError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
