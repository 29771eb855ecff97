package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
)

func TestReplyFingerprint(t *testing.T) {
	key := model.ReplyFingerprint("1234567890", "someuser")
	gt.Number(t, len(key)).Equal(24)

	// Deterministic
	gt.Value(t, model.ReplyFingerprint("1234567890", "someuser")).Equal(key)

	// Sensitive to both components
	gt.Value(t, model.ReplyFingerprint("1234567891", "someuser")).NotEqual(key)
	gt.Value(t, model.ReplyFingerprint("1234567890", "otheruser")).NotEqual(key)
}

func TestMentionFingerprint(t *testing.T) {
	// Tweet ID wins when present
	withID := model.MentionFingerprint("alice", "hey @phantom", "111")
	gt.Value(t, model.MentionFingerprint("bob", "different text", "111")).Equal(withID)
	gt.Number(t, len(withID)).Equal(16)

	// Without a tweet ID, author and text drive the key
	noID := model.MentionFingerprint("alice", "hey @phantom", "")
	gt.Value(t, noID).NotEqual(withID)
	gt.Value(t, model.MentionFingerprint("bob", "hey @phantom", "")).NotEqual(noID)

	// Only the first 100 characters of text participate
	base := strings.Repeat("a", 100)
	gt.Value(t, model.MentionFingerprint("alice", base+"tail1", "")).
		Equal(model.MentionFingerprint("alice", base+"tail2", ""))

	// Reply and mention namespaces never collide in shape
	gt.Value(t, len(model.ReplyFingerprint("111", "alice"))).NotEqual(len(withID))
}

func TestInteractionClone(t *testing.T) {
	orig := &model.Interaction{
		ID:        "abc123",
		Author:    "phantom",
		Self:      true,
		Content:   "original content",
		Kind:      types.InteractionPosted,
		Embedding: []float32{0.1, 0.2, 0.3},
		Metadata:  map[string]string{"topic": "ai"},
		CreatedAt: time.Now(),
	}

	copied := orig.Clone()
	copied.Embedding[0] = 0.9
	copied.Metadata["topic"] = "crypto"

	gt.Value(t, orig.Embedding[0]).Equal(float32(0.1))
	gt.Value(t, orig.Metadata["topic"]).Equal("ai")
}

func TestNewSentReplyClipsText(t *testing.T) {
	reply := model.NewSentReply("111", "alice", strings.Repeat("t", 600), strings.Repeat("r", 400), "222")
	gt.Number(t, len([]rune(reply.TargetText))).Equal(500)
	gt.Number(t, len([]rune(reply.OurReply))).Equal(300)
	gt.Value(t, reply.Key).Equal(model.ReplyFingerprint("111", "alice"))
}
