// services/hal/internal/gpioirq/irq_worker.go
package gpioirq

import (
	"sync"
	"sync/atomic"

	"joyrgb-go/errcode"
	"joyrgb-go/services/hal/internal/halcore"
	"joyrgb-go/types"
)

// EdgeHandler decides, in interrupt context, what an edge means. It must not
// block and reports whether the edge was accepted.
type EdgeHandler interface {
	HandleEdge(btn types.Button, edge types.Edge, nowMs uint32) bool
}

// Worker wires button pins to an EdgeHandler and mirrors every decision onto
// a bounded queue for the foreground loop to log.
type Worker struct {
	clock halcore.Clock

	// Written by ISR; MUST NOT block the ISR.
	outQ chan types.ButtonEvent

	mu     sync.Mutex
	inputs map[types.Button]*watch

	drops uint32 // ISR drop counter
}

type watch struct {
	btn       types.Button
	pin       halcore.IRQPin
	cancelIRQ func()
}

func New(clock halcore.Clock, outBuf int) *Worker {
	if outBuf <= 0 {
		outBuf = 16
	}
	return &Worker{
		clock:  clock,
		outQ:   make(chan types.ButtonEvent, outBuf),
		inputs: map[types.Button]*watch{},
	}
}

// Events carries edge decisions. Events are dropped, never queued
// unboundedly, when the consumer falls behind.
func (w *Worker) Events() <-chan types.ButtonEvent { return w.outQ }

// RegisterButton configures pin as a pulled-up input and routes its falling
// edges to h. Registering the same button twice replaces the first pin.
func (w *Worker) RegisterButton(btn types.Button, pin halcore.IRQPin, h EdgeHandler) (func(), error) {
	if !btn.Valid() {
		return nil, errcode.New(errcode.UnknownButton, "gpioirq.register", btn.String())
	}
	if pin == nil || h == nil {
		return nil, errcode.New(errcode.InvalidParams, "gpioirq.register", "nil pin or handler")
	}
	if err := pin.ConfigureInput(halcore.PullUp); err != nil {
		return nil, errcode.Wrap(errcode.PeripheralIO, "gpioirq.configure", err)
	}

	// ISR handler: timestamp, decide, non-blocking send.
	handler := func() {
		now := w.clock.NowMillis()
		ok := h.HandleEdge(btn, types.EdgeFalling, now)
		select {
		case w.outQ <- types.ButtonEvent{Button: btn, Edge: types.EdgeFalling, AtMs: now, Accepted: ok}:
		default:
			atomic.AddUint32(&w.drops, 1) // protect ISR path
		}
	}

	w.mu.Lock()
	prev := w.inputs[btn]
	w.mu.Unlock()
	if prev != nil {
		prev.cancelIRQ()
	}

	if err := pin.SetIRQ(types.EdgeFalling, handler); err != nil {
		return nil, errcode.Wrap(errcode.PeripheralIO, "gpioirq.set_irq", err)
	}
	wh := &watch{btn: btn, pin: pin, cancelIRQ: func() { _ = pin.ClearIRQ() }}

	w.mu.Lock()
	w.inputs[btn] = wh
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if cur, ok := w.inputs[btn]; ok && cur == wh {
			cur.cancelIRQ()
			delete(w.inputs, btn)
		}
	}, nil
}

// Close clears every registered interrupt.
func (w *Worker) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for b, wh := range w.inputs {
		wh.cancelIRQ()
		delete(w.inputs, b)
	}
}

func (w *Worker) ISRDrops() uint32 { return atomic.LoadUint32(&w.drops) }
