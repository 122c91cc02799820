//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"syscall/js"

	"voterroll/pkg/engine"
	"voterroll/pkg/report"
	"voterroll/pkg/schema"
	"voterroll/pkg/session"
	"voterroll/pkg/store"
)

// The page owns persistence: it reads the snapshot through voterrollState
// after each mutation and hands it back through voterrollLoadSnapshot on
// startup. Inside the instance the session runs on a memory store.

var current *session.Session

func reply(v any) any {
	out, err := json.Marshal(v)
	if err != nil {
		return fail(err)
	}
	return string(out)
}

func fail(err error) any {
	out, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(out)
}

func usage(msg string) any {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}

func bytesArg(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func reset(snap engine.Snapshot) error {
	mem := store.NewMemoryStore()
	if !snap.IsZero() {
		if err := mem.Save(context.Background(), snap, 1); err != nil {
			return err
		}
	}
	sess, err := session.New(context.Background(), mem)
	if err != nil {
		return err
	}
	current = sess
	return nil
}

// loadRegistry handles voterrollLoadRegistry.
// args[0] = Uint8Array (file bytes)
// args[1] = string (file name, used to pick the format)
func loadRegistry(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return usage("loadRegistry requires 2 arguments: Uint8Array and fileName")
	}
	res, err := current.LoadRegistry(context.Background(), bytes.NewReader(bytesArg(args[0])), args[1].String())
	if err != nil {
		return fail(err)
	}
	return reply(res)
}

// importCancellations handles voterrollImportCancellations.
// args[0] = Uint8Array (file bytes)
// args[1] = string (file name)
func importCancellations(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return usage("importCancellations requires 2 arguments: Uint8Array and fileName")
	}
	res, err := current.ImportCancellations(context.Background(), bytes.NewReader(bytesArg(args[0])), args[1].String())
	if err != nil {
		return fail(err)
	}
	return reply(res)
}

func confirmAll(this js.Value, args []js.Value) any {
	res, err := current.ConfirmAll(context.Background())
	if err != nil {
		return fail(err)
	}
	return reply(res)
}

// restore handles voterrollRestore.
// args[0] = string (ledger entry JSON as returned by voterrollLedger)
func restore(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return usage("restore requires 1 argument: entry JSON")
	}
	var entry schema.Voter
	if err := json.Unmarshal([]byte(args[0].String()), &entry); err != nil {
		return fail(err)
	}
	res, err := current.Restore(context.Background(), entry)
	if err != nil {
		return fail(err)
	}
	return reply(res)
}

func restoreAll(this js.Value, args []js.Value) any {
	res, err := current.RestoreAll(context.Background())
	if err != nil {
		return fail(err)
	}
	return reply(res)
}

// state handles voterrollState and returns the snapshot documents.
func state(this js.Value, args []js.Value) any {
	snap, err := engine.Encode(current.State())
	if err != nil {
		return fail(err)
	}
	return reply(snap)
}

// loadSnapshot handles voterrollLoadSnapshot.
// args[0] = string (JSON as returned by voterrollState)
func loadSnapshot(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return usage("loadSnapshot requires 1 argument: snapshot JSON")
	}
	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(args[0].String()), &snap); err != nil {
		return fail(err)
	}
	if err := reset(snap); err != nil {
		return fail(err)
	}
	return reply(current.State().Hierarchy.Stats())
}

func ledger(this js.Value, args []js.Value) any {
	return reply(report.LedgerView(current.State()))
}

func clearAll(this js.Value, args []js.Value) any {
	if err := current.Clear(context.Background()); err != nil {
		return fail(err)
	}
	return `{"ok": true}`
}

func main() {
	if err := reset(engine.Snapshot{}); err != nil {
		panic(err)
	}

	js.Global().Set("voterrollLoadRegistry", js.FuncOf(loadRegistry))
	js.Global().Set("voterrollImportCancellations", js.FuncOf(importCancellations))
	js.Global().Set("voterrollConfirmAll", js.FuncOf(confirmAll))
	js.Global().Set("voterrollRestore", js.FuncOf(restore))
	js.Global().Set("voterrollRestoreAll", js.FuncOf(restoreAll))
	js.Global().Set("voterrollState", js.FuncOf(state))
	js.Global().Set("voterrollLoadSnapshot", js.FuncOf(loadSnapshot))
	js.Global().Set("voterrollLedger", js.FuncOf(ledger))
	js.Global().Set("voterrollClear", js.FuncOf(clearAll))

	// Block forever so the instance stays alive.
	select {}
}
