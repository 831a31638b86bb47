// Package ratesfeed implements the BTC cross-rate sources: an HTTP
// snapshot endpoint and a streaming WebSocket feed.
package ratesfeed

import "encoding/json"

// rateEntry is one rate on the wire.
type rateEntry struct {
	Code string      `json:"code"`
	Name string      `json:"name"`
	Rate json.Number `json:"rate"`
}

// ratesEnvelope tolerates both `{"data": [...]}` and a bare array.
type ratesEnvelope struct {
	Data []rateEntry `json:"data"`
}

func decodeRates(body []byte) ([]rateEntry, error) {
	var envelope ratesEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data, nil
	}

	var bare []rateEntry
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

// streamMessage is one push from the WebSocket feed: a full snapshot.
type streamMessage struct {
	Rates []rateEntry `json:"rates"`
}
