// Command skipdb is a single-binary CLI harness over the index and MVCC
// packages. Non-MVCC subcommands operate on a process-local index.Engine
// loaded from and dumped back to a snapshot file around the command, since
// each invocation is its own process. The mvcc subcommand instead opens an
// interactive session so a transaction's lifetime can span multiple
// operations within one process — transaction identifiers are meaningless
// across process boundaries, so there is no cross-invocation "commit <id>".
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/corvusdb/skipdb/internal/index"
	"github.com/corvusdb/skipdb/internal/mvcc"
	"github.com/corvusdb/skipdb/internal/snapshot"
)

var snapshotPath = flag.String("snapshot", "./skipdb.snapshot", "snapshot file used by non-mvcc commands")

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "insert":
		insertCmd(args[1:])
	case "get":
		getCmd(args[1:])
	case "del":
		delCmd(args[1:])
	case "range":
		rangeCmd(args[1:])
	case "dump":
		dumpCmd(args[1:])
	case "load":
		loadCmd(args[1:])
	case "mvcc":
		mvccCmd(args[1:])
	case "stats":
		statsCmd()
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`skipdb - concurrent ordered key-value index

Usage:
  skipdb insert <key> <value>
  skipdb get <key>
  skipdb del <key>
  skipdb range <low> <high>
  skipdb dump <path>
  skipdb load <path>
  skipdb mvcc
  skipdb stats
  skipdb help

Non-MVCC commands persist to ./skipdb.snapshot between invocations.
"skipdb mvcc" opens an interactive transactional session.`)
}

func engineConfig() index.Config[string] {
	return index.Config[string]{KeyOf: func(k string) []byte { return []byte(k) }}
}

// loadEngine builds an engine from the default snapshot path if it
// exists, or an empty one otherwise.
func loadEngine() *index.Engine[string, string] {
	e := index.NewEngine[string, string](engineConfig())
	if _, err := os.Stat(*snapshotPath); err == nil {
		if err := snapshot.LoadEngine(*snapshotPath, e); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load snapshot: %v\n", err)
		}
	}
	return e
}

func saveEngine(e *index.Engine[string, string]) {
	if err := snapshot.DumpEngine(*snapshotPath, e); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to persist snapshot: %v\n", err)
	}
}

func insertCmd(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: skipdb insert <key> <value>")
		os.Exit(1)
	}
	e := loadEngine()
	result := e.Insert(args[0], args[1])
	saveEngine(e)
	fmt.Println(result)
}

func getCmd(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: skipdb get <key>")
		os.Exit(1)
	}
	e := loadEngine()
	value, ok := e.Lookup(args[0])
	if !ok {
		fmt.Println("(absent)")
		os.Exit(1)
	}
	fmt.Println(value)
}

func delCmd(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: skipdb del <key>")
		os.Exit(1)
	}
	e := loadEngine()
	result := e.Remove(args[0])
	saveEngine(e)
	fmt.Println(result)
}

func rangeCmd(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: skipdb range <low> <high>")
		os.Exit(1)
	}
	e := loadEngine()
	for _, entry := range e.Range(args[0], args[1]) {
		fmt.Printf("%s:%s\n", entry.Key, entry.Value)
	}
}

func dumpCmd(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: skipdb dump <path>")
		os.Exit(1)
	}
	e := loadEngine()
	if err := snapshot.DumpEngine(args[0], e); err != nil {
		fmt.Fprintf(os.Stderr, "dump failed: %v\n", err)
		os.Exit(1)
	}
}

func loadCmd(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: skipdb load <path>")
		os.Exit(1)
	}
	e := loadEngine()
	if err := snapshot.LoadEngine(args[0], e); err != nil {
		fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
		os.Exit(1)
	}
	saveEngine(e)
}

func statsCmd() {
	e := loadEngine()
	stats := e.PoolStats()
	fmt.Printf("size=%d pool_allocated=%d pool_reused=%d pool_free_list_size=%d\n",
		e.Size(), stats.Allocated, stats.Reused, stats.FreeListSize)
}

const mvccSnapshotPath = "./skipdb.mvcc.snapshot"

// mvccCmd runs an interactive transactional session: each line is one
// subcommand, terminated by "commit" or "abort". State is persisted to
// mvccSnapshotPath when the transaction commits.
func mvccCmd(args []string) {
	store := mvcc.NewStore[string, string](engineConfig())
	if _, err := os.Stat(mvccSnapshotPath); err == nil {
		if err := snapshot.LoadStore(mvccSnapshotPath, store); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load mvcc snapshot: %v\n", err)
		}
	}

	txn := store.Begin()
	fmt.Printf("txn %d started; enter insert/get/del/range/commit/abort, one per line\n", txn.ID())

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "insert":
			if len(fields) != 3 {
				fmt.Println("usage: insert <key> <value>")
				continue
			}
			if err := store.Insert(txn, fields[1], fields[2]); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("ok")
		case "get":
			if len(fields) != 2 {
				fmt.Println("usage: get <key>")
				continue
			}
			v, res, err := store.Lookup(txn, fields[1])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if res == mvcc.NotFound {
				fmt.Println("(absent)")
				continue
			}
			fmt.Println(v)
		case "del":
			if len(fields) != 2 {
				fmt.Println("usage: del <key>")
				continue
			}
			res, err := store.Delete(txn, fields[1])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println(res)
		case "range":
			if len(fields) != 3 {
				fmt.Println("usage: range <low> <high>")
				continue
			}
			entries, err := store.Range(txn, fields[1], fields[2])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, e := range entries {
				fmt.Printf("%s:%s\n", e.Key, e.Value)
			}
		case "commit":
			if store.Commit(txn) {
				if err := snapshot.DumpStore(mvccSnapshotPath, store); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to persist mvcc snapshot: %v\n", err)
				}
				fmt.Println("committed")
			} else {
				fmt.Println("commit failed: transaction not active")
			}
			return
		case "abort":
			store.Abort(txn)
			fmt.Println("aborted")
			return
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}
