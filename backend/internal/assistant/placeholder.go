package assistant

import (
	"context"
	"hash/fnv"
	"strings"
)

var cannedReplies = []string{
	"Great question! Focus on early preparation: turn your shoulders as soon as you read the ball.",
	"Try a split step just as your opponent makes contact. It keeps you balanced for the first move.",
	"For consistency, aim a metre inside the lines and add height over the net before adding pace.",
	"Looking for a hitting partner? Check Discover to find players near your level.",
}

// Placeholder answers from a fixed set of tips. It is used when no upstream
// API key is configured.
type Placeholder struct{}

var _ Provider = Placeholder{}

func (Placeholder) Name() string { return "placeholder" }

// Reply picks a canned tip deterministically from the message text
func (Placeholder) Reply(_ context.Context, req Request) (Reply, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(req.Message))))
	return Reply{
		Text:     cannedReplies[h.Sum32()%uint32(len(cannedReplies))],
		Provider: "placeholder",
	}, nil
}
