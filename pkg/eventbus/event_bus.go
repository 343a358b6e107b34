package eventbus

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/steiner385/MachShop-sub013/pkg/serrors"
)

// EventBus is an in-process publish/subscribe bus. Handlers are plain
// functions; a published event reaches every handler whose parameter
// list matches the published arguments, so one bus carries unrelated
// event shapes side by side.
type EventBus interface {
	Publish(args ...interface{})
	Subscribe(handler interface{})
	Unsubscribe(handler interface{})
	Clear()
	SubscribersCount() int
}

// EventBusWithError extends the bus with a publish that reports handler
// outcomes. The outbox dispatcher requires it: a failed handler must
// make the relay retry the message instead of acking it.
type EventBusWithError interface {
	EventBus
	PublishE(args ...any) error
}

var (
	ErrNoSubscribers        = serrors.NewError("EVENTBUS_NO_SUBSCRIBERS", "no matching subscribers")
	ErrInvalidHandlerReturn = serrors.NewError("EVENTBUS_INVALID_HANDLER_RETURN", "invalid handler return signature")
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// registration caches the reflected handler so matching and dispatch
// never re-derive type information per publish.
type registration struct {
	fn reflect.Value
	ft reflect.Type
}

func (r registration) matches(args []interface{}) bool {
	if r.ft.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		param := r.ft.In(i)
		if arg == nil {
			if param.Kind() != reflect.Interface && param.Kind() != reflect.Ptr {
				return false
			}
			continue
		}
		at := reflect.TypeOf(arg)
		if param.Kind() == reflect.Interface {
			if !at.Implements(param) {
				return false
			}
			continue
		}
		if !at.AssignableTo(param) {
			return false
		}
	}
	return true
}

// call invokes the handler with panic recovery and normalizes its
// return into an error; void handlers yield nil.
func (r registration) call(in []reflect.Value) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("eventbus: handler %s panicked: %v", r.ft.String(), rec)
		}
	}()

	out := r.fn.Call(in)
	switch {
	case len(out) == 0:
		return nil
	case len(out) > 1:
		return fmt.Errorf("%w: handler %s returned %d values", ErrInvalidHandlerReturn, r.ft.String(), len(out))
	case out[0].Type() != errType:
		return fmt.Errorf("%w: handler %s return type is %s", ErrInvalidHandlerReturn, r.ft.String(), out[0].Type().String())
	case !out[0].IsNil():
		return out[0].Interface().(error)
	default:
		return nil
	}
}

// MatchSignature reports whether the handler would receive an event
// published with the given arguments.
func MatchSignature(handler interface{}, args []interface{}) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func {
		return false
	}
	return registration{fn: reflect.ValueOf(handler), ft: t}.matches(args)
}

type publisherImpl struct {
	log      *logrus.Logger
	handlers []registration
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisherImpl{log: log}
}

func (p *publisherImpl) dispatch(args []interface{}) (bool, []error) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = reflect.ValueOf(arg)
	}

	handled := false
	var errs []error
	for _, reg := range p.handlers {
		if !reg.matches(args) {
			continue
		}
		handled = true
		if err := reg.call(in); err != nil {
			errs = append(errs, err)
		}
	}
	return handled, errs
}

func (p *publisherImpl) Publish(args ...interface{}) {
	handled, errs := p.dispatch(args)
	if p.log == nil {
		return
	}
	for _, err := range errs {
		p.log.WithError(err).Error("eventbus: handler failed")
	}
	if !handled {
		p.log.Warnf("eventbus: no matching subscribers for event with args: %v", args)
	}
}

func (p *publisherImpl) PublishE(args ...any) error {
	handled, errs := p.dispatch(args)
	if !handled {
		return ErrNoSubscribers
	}
	return errors.Join(errs...)
}

func (p *publisherImpl) Subscribe(handler interface{}) {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func {
		panic("handler must be a function")
	}
	p.handlers = append(p.handlers, registration{fn: reflect.ValueOf(handler), ft: t})
}

func (p *publisherImpl) Unsubscribe(handler interface{}) {
	hp := reflect.ValueOf(handler).Pointer()
	for i, reg := range p.handlers {
		if reg.fn.Pointer() == hp {
			p.handlers = append(p.handlers[:i], p.handlers[i+1:]...)
			return
		}
	}
}

func (p *publisherImpl) Clear() {
	p.handlers = nil
}

func (p *publisherImpl) SubscribersCount() int {
	return len(p.handlers)
}
