// Command demo exercises an Engine with journaling: a few puts and gets
// past capacity to trigger eviction, then a restart from the same journal
// folder to show replay bringing the cache back to its prior state.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sinecache/sinecache/engine"
	"github.com/sinecache/sinecache/policy/lfu"
)

func main() {
	dir, err := os.MkdirTemp("", "sinecache-demo")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	cfg := engine.Config[string, string]{
		Capacity: 2,
		Policy:   lfu.New[string](),
		Journal: &engine.JournalConfig[string, string]{
			Folder:    dir,
			CacheName: "demo",
		},
	}

	c, err := engine.New(cfg)
	if err != nil {
		panic(err)
	}

	_ = c.Put("a", "1")
	_ = c.Put("b", "2")
	if v, ok, _ := c.Get("a"); ok {
		fmt.Println("get a ->", v)
	}
	if v, ok, _ := c.Get("a"); ok {
		fmt.Println("get a ->", v)
	}
	// c at capacity, a has the higher frequency; "b" is the LFU victim.
	if err := c.Put("d", "4"); err != nil {
		panic(err)
	}
	fmt.Println("len ->", c.Len())
	fmt.Println("contains b ->", c.Contains("b"))

	if err := c.Close(); err != nil {
		panic(err)
	}

	// Restart: replay the journal at the same path into a fresh Engine.
	c2, err := engine.New(engine.Config[string, string]{
		Capacity: 2,
		Policy:   lfu.New[string](),
		Journal: &engine.JournalConfig[string, string]{
			Folder:    dir,
			CacheName: "demo",
		},
	})
	if err != nil {
		panic(err)
	}
	defer c2.Close()

	fmt.Println("after replay, len ->", c2.Len())
	fmt.Println("after replay, contains a ->", c2.Contains("a"))
	fmt.Println("after replay, contains d ->", c2.Contains("d"))
	fmt.Println("journal path ->", filepath.Join(dir, "demo"))
}
