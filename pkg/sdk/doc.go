// Package speeches embeds the speeches record service in a Go program.
//
// The client wires the same record stores and search predicate the HTTP
// service uses, without the HTTP layer:
//
//	client, _ := speeches.New(ctx, speeches.WithSQLite("file:speeches.db"))
//	defer client.Close()
//
//	s, _ := client.Speeches().Create(ctx, speeches.Speech{
//	    Title:  "On Liberty",
//	    Body:   "We choose freedom",
//	    Author: "Jane",
//	    Date:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
//	})
//
//	found, _ := client.Speeches().Search().
//	    Author("Jane").
//	    From(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
//	    Keyword("freedom").
//	    Do(ctx)
package speeches
