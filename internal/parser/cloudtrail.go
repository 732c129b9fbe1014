package parser

import (
	"strings"

	"cloudtrail-explorer/internal/types"
)

// UnknownPrincipal is used when no identity field is present.
const UnknownPrincipal = "-"

// Normalize converts one decoded event into a Row. It never fails: events
// that are not objects, or that lack fields, produce empty projections.
func Normalize(raw interface{}, index int) *types.Row {
	evt := object(raw)
	principal := Principal(evt)
	eventTime := first(evt, "eventTime", "eventDate", "timestamp")

	return &types.Row{
		Index:           index,
		Raw:             raw,
		EventTime:       eventTime,
		EventTimeMillis: ParseMillis(eventTime),
		EventSource:     first(evt, "eventSource", "sourceIPAddress"),
		EventName:       first(evt, "eventName", "eventType"),
		Principal:       principal,
		Region:          first(evt, "awsRegion", "region"),
		ErrorCode:       first(evt, "errorCode", "errorMessage"),
		SearchBlob:      searchBlob(evt, raw, principal),
	}
}

// NormalizeAll normalizes a batch, assigning indices by position.
func NormalizeAll(events []interface{}) []*types.Row {
	rows := make([]*types.Row, len(events))
	for i, evt := range events {
		rows[i] = Normalize(evt, i)
	}
	return rows
}

// Principal resolves the acting identity of an event.
func Principal(evt map[string]interface{}) string {
	ui := object(evt["userIdentity"])
	if s := first(ui, "userName", "arn", "principalId"); s != "" {
		return s
	}
	if s := str(lookup(ui, "sessionContext", "sessionIssuer", "arn")); s != "" {
		return s
	}
	if s := str(lookup(ui, "sessionContext", "sessionIssuer", "userName")); s != "" {
		return s
	}
	if s := str(evt["username"]); s != "" {
		return s
	}
	return UnknownPrincipal
}

func searchBlob(evt map[string]interface{}, raw interface{}, principal string) string {
	var resources interface{} = []interface{}{}
	if truthy(evt["resources"]) {
		resources = evt["resources"]
	}

	terms := []string{
		str(evt["eventID"]),
		str(evt["requestID"]),
		str(evt["eventSource"]),
		str(evt["eventName"]),
		principal,
		str(evt["sourceIPAddress"]),
		str(evt["userAgent"]),
		str(evt["awsRegion"]),
		str(evt["errorCode"]),
		str(evt["errorMessage"]),
		serialize(resources),
		strings.ToLower(serialize(raw)),
	}

	parts := terms[:0]
	for _, t := range terms {
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// EventID returns the best identifier of a raw event for display, or "".
func EventID(raw interface{}) string {
	return first(object(raw), "eventID", "requestID", "sharedEventID")
}
