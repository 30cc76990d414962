// Package lingoq serializes AI translation requests through a single
// cached, rate-limit aware work queue.
//
// A Coordinator accepts batches of UI strings for a target language and
// forwards them one at a time to an upstream text-generation provider.
// Identical batches are answered from a cache, rate-limit responses pause
// the whole queue for a cooldown window, and callers always get back a
// result of the same length and order as their input, falling back to the
// original text when the upstream answer cannot be used.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/lingoq"
//	    "github.com/ZaguanLabs/lingoq/cache"
//	    "github.com/ZaguanLabs/lingoq/provider"
//	)
//
//	func main() {
//	    p := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    c := lingoq.NewCoordinator(p,
//	        lingoq.WithCache(cache.NewInMemoryCache(0)),
//	    )
//	    defer c.Close()
//
//	    texts, _ := c.Translate(context.Background(), []string{"Hello", "World"}, "es")
//	    fmt.Println(texts) // [Hola Mundo]
//	}
package lingoq
