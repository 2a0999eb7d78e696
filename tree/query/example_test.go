package query_test

import (
	"fmt"
	"log"

	"github.com/creachadair/jbind/codec/json"
	"github.com/creachadair/jbind/tree"
	"github.com/creachadair/jbind/tree/query"
)

func mustParseOne(s string) tree.Node {
	n, err := json.Codec{}.Parse([]byte(s))
	if err != nil {
		log.Fatalf("Parse: %v", err)
	}
	return n
}

func Example_small() {
	root := mustParseOne(`[{"a": 1, "b": 2}, {"c": {"d": true}, "e": false}]`)
	v, err := query.Eval(root, query.Path(1, "c", "d"))
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	fmt.Println(v)
	// Output:
	// true
}

func Example_medium() {
	root := mustParseOne(`
{
  "plaintiff": "Inigo Montoya",
  "complaint": {
     "defendant": "you",
     "action": "killed",
     "target": "Individual 1"
  },
  "requestedRelief": ["die", "pay punitive damages", "pay attorney fees"],
  "relatedPersons": {
    "Individual 1": {"id": "father", "rel": "plaintiff"}
  }
}`)

	v, err := query.Eval(root, query.Object{
		"name": query.Path("plaintiff"),
		"act": query.Array{
			query.Path("complaint", "defendant"),
			query.Path("complaint", "action"),
			query.Value(tree.String("my")),
			query.Path("relatedPersons", "Individual 1", "id"),
		},
		"req": query.Path("requestedRelief", 0),
	})
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	obj := v.(*tree.Object)
	name, _ := obj.Get("name")
	act, _ := obj.Get("act")
	req, _ := obj.Get("req")
	fmt.Printf("Hello, my name is: %s\n", name.(tree.Primitive).Value())
	fmt.Println(act)
	fmt.Printf("Prepare to %s", req.(tree.Primitive).Value())
	// Output:
	// Hello, my name is: Inigo Montoya
	// ["you","killed","my","father"]
	// Prepare to die
}
