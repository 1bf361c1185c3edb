package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kargotek/destek/backend/internal/analysis/sentiment"
	"github.com/kargotek/destek/backend/internal/model/support"
	"github.com/kargotek/destek/backend/internal/service/action"
	"github.com/kargotek/destek/backend/internal/service/session"
	"github.com/kargotek/destek/backend/internal/service/verify"
)

var errResolverUnavailable = errors.New("intent resolver unavailable")

// Resolver is the intent-resolution collaborator.
type Resolver interface {
	Resolve(ctx context.Context, sess *support.Session, message string) (support.Decision, error)
}

// Composer is the response-composition collaborator.
type Composer interface {
	Compose(ctx context.Context, userMessage, fact string) (string, error)
}

// Orchestrator drives one conversational turn: load session, resolve
// intent, run verification slot-filling or action dispatch, commit the
// session mutation, return the reply.
type Orchestrator struct {
	sessions *session.Store
	verifier *verify.Verifier
	lockout  verify.Lockout
	actions  *action.Registry
	resolver Resolver
	composer Composer
	analyze  func(string) sentiment.Label
}

// New wires the orchestrator. resolver and composer may be nil; affected
// turns then degrade to the canned apology or the raw system fact.
func New(sessions *session.Store, verifier *verify.Verifier, actions *action.Registry, resolver Resolver, composer Composer) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		verifier: verifier,
		lockout:  verify.NewLockout(),
		actions:  actions,
		resolver: resolver,
		composer: composer,
		analyze:  sentiment.Analyze,
	}
}

// ProcessTurn handles one inbound message. It never fails the request:
// every failure path degrades to a fixed apologetic reply. All blocking
// collaborator work runs on a session snapshot; the resulting mutation
// commits atomically keyed by session id, so concurrent turns for the
// same session never interleave their commits.
func (o *Orchestrator) ProcessTurn(ctx context.Context, sessionID, message string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[turn] recovered panic session=%s: %v", sessionID, r)
			reply = msgApology
		}
	}()

	sess := o.sessions.GetOrCreate(sessionID)

	var (
		label      sentiment.Label
		decision   support.Decision
		resolveErr error
	)
	// Sentiment and intent resolution are independent; run them together.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		label = o.analyze(message)
		return nil
	})
	verifying := sess.State() == support.StateVerifying
	if !verifying {
		g.Go(func() error {
			// A panicking resolver must not escape the goroutine.
			defer func() {
				if r := recover(); r != nil {
					resolveErr = fmt.Errorf("intent resolution panic: %v", r)
				}
			}()
			decision, resolveErr = o.resolve(gctx, &sess, message)
			return nil
		})
	}
	_ = g.Wait()

	var mutate func(*support.Session)
	switch {
	case verifying:
		// Mid-verification the user message is the next slot value;
		// the resolver is not consulted until all three are restated.
		reply, mutate = o.continueVerification(ctx, &sess, message)
	case resolveErr != nil:
		log.Printf("[turn] intent resolution failed session=%s: %v", sessionID, resolveErr)
		reply = msgApology
	case decision.Type == support.DecisionChat:
		reply = decision.Reply
	default:
		reply, mutate = o.handleAction(ctx, &sess, message, decision)
	}

	reply = sentiment.Prefix(label) + reply

	final := reply
	o.sessions.Update(sessionID, func(s *support.Session) {
		if mutate != nil {
			mutate(s)
		}
		s.AppendTurn(message, final)
	})
	return reply
}

func (o *Orchestrator) resolve(ctx context.Context, sess *support.Session, message string) (support.Decision, error) {
	if o.resolver == nil {
		return support.Decision{}, errResolverUnavailable
	}
	return o.resolver.Resolve(ctx, sess, message)
}

// handleAction gates an action intent on verification: unverified callers
// enter slot-filling with the action queued for resumption.
func (o *Orchestrator) handleAction(ctx context.Context, sess *support.Session, message string, dec support.Decision) (string, func(*support.Session)) {
	if !o.actions.Known(dec.Function) {
		log.Printf("[turn] unknown action %q session=%s", dec.Function, sess.ID)
		return msgApology, nil
	}

	if o.actions.RequiresVerification(dec.Function) && !sess.Verified {
		slots := mergeVerificationParams(sess.Pending, dec.Parameters)
		if slots.Complete() {
			return o.runVerification(ctx, message, slots, sess.ConsecutiveFailures, dec.Function, dec.Parameters)
		}
		prompt := slotPrompts[slots.NextMissing()]
		return prompt, func(s *support.Session) {
			s.Pending = slots
			s.PendingAction = dec.Function
			s.PendingParams = dec.Parameters
		}
	}

	id := action.Identity{
		Verified:   sess.Verified,
		TrackingNo: sess.TrackingNo,
		CustomerID: sess.CustomerID,
		Role:       sess.Role,
	}
	return o.dispatchAction(ctx, message, dec.Function, id, dec.Parameters, sess.ConsecutiveFailures)
}

// continueVerification consumes the message as the next pending slot and
// verifies once all three factors are present.
func (o *Orchestrator) continueVerification(ctx context.Context, sess *support.Session, message string) (string, func(*support.Session)) {
	slots := sess.Pending
	if missing := slots.NextMissing(); missing != "" {
		fillSlot(&slots, missing, message)
	}
	if !slots.Complete() {
		prompt := slotPrompts[slots.NextMissing()]
		return prompt, func(s *support.Session) { s.Pending = slots }
	}
	return o.runVerification(ctx, message, slots, sess.ConsecutiveFailures, sess.PendingAction, sess.PendingParams)
}

// runVerification matches the completed triple. Success sets the session
// identity and resumes the queued action; failure clears the collected
// slots (the caller must restate all three) and counts against lockout.
func (o *Orchestrator) runVerification(ctx context.Context, userMessage string, slots support.Slots, failures int, pendingAction string, pendingParams map[string]string) (string, func(*support.Session)) {
	res, err := o.verifier.Verify(ctx, slots.OrderNo, slots.Name, slots.Phone)
	if err != nil {
		log.Printf("[verify] storage failure: %v", err)
		return msgApology, nil
	}

	if !res.Verified {
		// Reason stays in the logs; the reply is one generic message no
		// matter which factor disagreed.
		log.Printf("[verify] attempt failed: %s", res.Reason)
		newCount, locked := o.lockout.Bump(failures)
		msg := msgRetry(newCount, o.lockout.Threshold)
		if locked {
			msg = msgLockout
		}
		return msg, func(s *support.Session) {
			n, _ := o.lockout.Bump(s.ConsecutiveFailures)
			s.ConsecutiveFailures = n
			s.ClearPending()
		}
	}

	id := action.Identity{
		Verified:   true,
		TrackingNo: res.OrderNo,
		CustomerID: res.CustomerID,
		Role:       res.Role,
	}

	reply := msgVerified(res.FullName)
	var extra func(*support.Session)
	if pendingAction != "" {
		reply, extra = o.dispatchAction(ctx, userMessage, pendingAction, id, pendingParams, 0)
	}

	return reply, func(s *support.Session) {
		s.SetIdentity(res.OrderNo, res.CustomerID, res.FullName, res.Role)
		s.PendingAction = ""
		s.PendingParams = nil
		if extra != nil {
			extra(s)
		}
	}
}

// dispatchAction executes a registered action and converts its outcome to
// a reply plus an optional session mutation. Not-found lookups on account
// data count against the lockout threshold.
func (o *Orchestrator) dispatchAction(ctx context.Context, userMessage, name string, id action.Identity, params action.Params, failures int) (string, func(*support.Session)) {
	outcome, err := o.actions.Dispatch(ctx, name, id, params)
	if err != nil {
		log.Printf("[action] %s failed: %v", name, err)
		return msgApology, nil
	}

	switch outcome.Kind {
	case action.KindNotFound:
		_, locked := o.lockout.Bump(failures)
		msg := msgNotFound
		if locked {
			msg = msgLockout
		}
		return msg, func(s *support.Session) {
			n, _ := o.lockout.Bump(s.ConsecutiveFailures)
			s.ConsecutiveFailures = n
		}
	case action.KindNeedsInput:
		return outcome.Message, nil
	case action.KindRejected:
		return o.compose(ctx, userMessage, outcome.Message), nil
	default:
		return o.compose(ctx, userMessage, outcome.Message), nil
	}
}

// compose hands the system fact to the response-composition collaborator,
// falling back to the raw fact when it is unavailable or fails.
func (o *Orchestrator) compose(ctx context.Context, userMessage, fact string) string {
	if o.composer == nil {
		return fact
	}
	reply, err := o.composer.Compose(ctx, userMessage, fact)
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Printf("[compose] falling back to system fact: %v", err)
		return fact
	}
	return reply
}

func fillSlot(slots *support.Slots, slot, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	switch slot {
	case support.SlotName:
		slots.Name = value
	case support.SlotOrderNo:
		slots.OrderNo = value
	case support.SlotPhone:
		slots.Phone = value
	}
}

// mergeVerificationParams copies identity factors the resolver already
// extracted from the utterance into the pending slots.
func mergeVerificationParams(slots support.Slots, params map[string]string) support.Slots {
	fillSlot(&slots, support.SlotName, params["ad_soyad"])
	fillSlot(&slots, support.SlotOrderNo, params["siparis_no"])
	fillSlot(&slots, support.SlotPhone, params["telefon"])
	return slots
}
