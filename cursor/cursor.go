package cursor

import (
	"fmt"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/btcsuite/btcutil/base58"
	"github.com/nicolasparada/go-errs"
	"github.com/vmihailenco/msgpack/v5"
)

const DefaultPageSize = 10

type Cursor[T any] struct {
	ID string `msgpack:"i"`
	// Value will most of the time be a CreatedAt time.Time field.
	Value T `msgpack:"v,omitempty"`
}

func Encode[T any](cursor Cursor[T]) (string, error) {
	b, err := msgpack.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("msgpack marshal cursor: %w", err)
	}

	return base58.Encode(b), nil
}

func Decode[T any](s string) (Cursor[T], error) {
	var c Cursor[T]

	b := base58.Decode(s)
	if len(b) == 0 {
		return c, errs.InvalidArgumentError("invalid cursor")
	}

	if err := msgpack.Unmarshal(b, &c); err != nil {
		return c, errs.InvalidArgumentError("invalid cursor")
	}

	return c, nil
}

// PageArgs is the decoded form of forward-only types.PageArgs.
type PageArgs[T any] struct {
	First uint
	After *Cursor[T]
}

func ParsePageArgs[T any](in types.PageArgs) (PageArgs[T], error) {
	out := PageArgs[T]{First: DefaultPageSize}
	if in.First != nil {
		out.First = *in.First
	}

	if in.After != nil {
		after, err := Decode[T](*in.After)
		if err != nil {
			return out, fmt.Errorf("decode after cursor: %w", err)
		}

		out.After = &after
	}

	return out, nil
}

// ApplyPageInfo trims a page fetched with First+1 items and sets its cursors.
func ApplyPageInfo[I, C any](page *types.Page[I], args PageArgs[C], cursorFunc func(item I) Cursor[C]) error {
	page.PageInfo.HasPreviousPage = args.After != nil
	page.PageInfo.HasNextPage = uint(len(page.Items)) > args.First
	if page.PageInfo.HasNextPage {
		page.Items = page.Items[:args.First]
	}

	l := len(page.Items)
	if l == 0 {
		return nil
	}

	if c, err := Encode(cursorFunc(page.Items[0])); err != nil {
		return fmt.Errorf("encode start cursor: %w", err)
	} else {
		page.PageInfo.StartCursor = &c
	}

	if c, err := Encode(cursorFunc(page.Items[l-1])); err != nil {
		return fmt.Errorf("encode end cursor: %w", err)
	} else {
		page.PageInfo.EndCursor = &c
	}

	return nil
}
