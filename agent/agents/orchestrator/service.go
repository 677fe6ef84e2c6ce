package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	"github.com/taskmaster-ai/taskmaster-agent/agent/classify"
	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
	"github.com/taskmaster-ai/taskmaster-agent/agent/conversation"
	nodex "github.com/taskmaster-ai/taskmaster-agent/agent/nodes"
	promptx "github.com/taskmaster-ai/taskmaster-agent/agent/prompt"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidUser    = nodex.ErrInvalidUser
)

type Config struct {
	Temperature     float32
	MaxOutputTokens int
	ContextWindow   int
}

// Orchestrator is the protocol engine: one inbound message becomes at most
// one tool invocation plus a grounded natural-language answer. Cycles for the
// same user identity serialize; different users run fully in parallel.
type Orchestrator struct {
	store contractx.ConversationStore
	gen   contractx.Generator
	tools contractx.ToolGateway

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	system string
	opts   contractx.GenerateOptions
	window int

	userLocks sync.Map // userID -> *sync.Mutex
}

func New(
	store contractx.ConversationStore,
	gen contractx.Generator,
	tools contractx.ToolGateway,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("conversation store is required")
	}
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	window := cfg.ContextWindow
	if window <= 0 {
		window = conversation.DefaultWindow
	}
	opts := contractx.GenerateOptions{
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = 2048
	}

	o := &Orchestrator{
		store:  store,
		gen:    gen,
		tools:  tools,
		system: promptx.System(),
		opts:   opts,
		window: window,
	}

	graphRunner, err := o.compileCycleGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage runs one full orchestration cycle for the verified user.
// Generation failures are classified into a failed Outcome; only invalid
// input and caller cancellation surface as errors.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID, message string) (contractx.Outcome, error) {
	mu := o.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		UserID:  userID,
		Message: message,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return contractx.Outcome{}, ctxErr
		}
		if errors.Is(err, contractx.ErrGenerate) {
			kind, text := classify.Classify(err)
			log.Warn().Str("user_id", userID).Str("error_kind", string(kind)).Err(err).Msg("cycle failed")
			return contractx.Outcome{Text: text, Success: false, ErrorKind: kind}, nil
		}
		return contractx.Outcome{}, err
	}

	return contractx.Outcome{Text: out.Text, Success: true}, nil
}

// ClearHistory resets the user's conversation memory.
func (o *Orchestrator) ClearHistory(userID string) {
	mu := o.userLock(userID)
	mu.Lock()
	defer mu.Unlock()
	o.store.Clear(userID)
}

// userLock returns the per-user mutex that serializes whole cycles. The lock
// spans Drafting through Done so concurrent cycles for one identity cannot
// interleave their history writes.
func (o *Orchestrator) userLock(userID string) *sync.Mutex {
	v, _ := o.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}
