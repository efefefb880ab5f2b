package cart

import (
	"errors"
	"testing"

	"camellia-order-gateway/internal/menu"
	"camellia-order-gateway/internal/pricing"
)

func burgerItem() menu.Item {
	return menu.Item{
		ItemID:    "1",
		ItemName:  "Burger",
		ItemPrice: 8.00,
		Notes:     pricing.PriceList{{Name: "Extra", Price: 1.50}},
	}
}

func noodleItem() menu.Item {
	return menu.Item{
		ItemID:    "2",
		ItemName:  "Noodles",
		ItemPrice: 6.00,
		Options: pricing.PriceList{
			{Name: "Chicken", Price: 8.99},
			{Name: "Beef", Price: 9.99},
		},
		Notes: pricing.PriceList{{Name: "Spicy", Price: 0}},
	}
}

func TestNewLinePricesNoteOnTopOfBase(t *testing.T) {
	line, err := NewLine(burgerItem(), Selection{NoteNames: []string{"Extra"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.UnitPrice != 9.50 {
		t.Fatalf("expected unit price 9.50, got %v", line.UnitPrice)
	}
	if line.BasePriceUsed != 8.00 {
		t.Fatalf("expected base price 8.00, got %v", line.BasePriceUsed)
	}
}

func TestNewLineOptionReplacesBasePrice(t *testing.T) {
	line, err := NewLine(noodleItem(), Selection{OptionName: "Beef", NoteNames: []string{"Spicy"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.BasePriceUsed != 9.99 {
		t.Fatalf("expected option price as base, got %v", line.BasePriceUsed)
	}
	if line.UnitPrice != 9.99 {
		t.Fatalf("expected unit price 9.99, got %v", line.UnitPrice)
	}
}

func TestNewLineRejectsSoldOut(t *testing.T) {
	item := burgerItem()
	item.Soldout = true

	if _, err := NewLine(item, Selection{}); !errors.Is(err, ErrSoldOut) {
		t.Fatalf("expected ErrSoldOut, got %v", err)
	}
}

func TestNewLineRejectsUnknownOption(t *testing.T) {
	if _, err := NewLine(noodleItem(), Selection{OptionName: "Pork"}); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestNewLineKeepsUnlistedNoteAtZero(t *testing.T) {
	line, err := NewLine(burgerItem(), Selection{NoteNames: []string{"No pickles"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.UnitPrice != 8.00 {
		t.Fatalf("expected unit price 8.00, got %v", line.UnitPrice)
	}
	if len(line.Notes) != 1 || line.Notes[0].Name != "No pickles" || line.Notes[0].Price != 0 {
		t.Fatalf("expected note kept at zero price, got %v", line.Notes)
	}
}

func TestAddMergesIdenticalSelections(t *testing.T) {
	c := &Cart{}
	for i := 0; i < 2; i++ {
		line, err := NewLine(burgerItem(), Selection{NoteNames: []string{"Extra"}, Qty: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c.Add(line)
	}

	if c.Len() != 1 {
		t.Fatalf("expected one merged line, got %d", c.Len())
	}
	lines := c.Lines()
	if lines[0].Qty != 2 {
		t.Fatalf("expected qty 2, got %d", lines[0].Qty)
	}
	if got := c.Total(); got != 19.00 {
		t.Fatalf("expected total 19.00, got %v", got)
	}
}

func TestAddKeepsDifferentSelectionsDistinct(t *testing.T) {
	c := &Cart{}

	chicken, err := NewLine(noodleItem(), Selection{OptionName: "Chicken"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	beef, err := NewLine(noodleItem(), Selection{OptionName: "Beef"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Add(chicken)
	c.Add(beef)
	if c.Len() != 2 {
		t.Fatalf("expected two distinct lines, got %d", c.Len())
	}

	named, err := NewLine(noodleItem(), Selection{OptionName: "Chicken", CustomerName: "Ann"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Add(named)
	if c.Len() != 3 {
		t.Fatalf("expected customer name to split lines, got %d", c.Len())
	}
}

func TestSetQuantityRemovesAllLinesOfItem(t *testing.T) {
	c := &Cart{}

	chicken, _ := NewLine(noodleItem(), Selection{OptionName: "Chicken"})
	beef, _ := NewLine(noodleItem(), Selection{OptionName: "Beef"})
	burger, _ := NewLine(burgerItem(), Selection{})
	c.Add(chicken)
	c.Add(beef)
	c.Add(burger)

	before := c.Total()
	if !c.SetQuantity("2", 0) {
		t.Fatalf("expected a match for item 2")
	}
	if c.Len() != 1 {
		t.Fatalf("expected only the burger left, got %d lines", c.Len())
	}
	if got := c.Total(); got >= before || got != 8.00 {
		t.Fatalf("expected total 8.00 after removal, got %v", got)
	}
}

func TestSetQuantityUpdatesMatchingLines(t *testing.T) {
	c := &Cart{}
	line, _ := NewLine(burgerItem(), Selection{})
	c.Add(line)

	if !c.SetQuantity("1", 3) {
		t.Fatalf("expected a match")
	}
	if got := c.Lines()[0].Qty; got != 3 {
		t.Fatalf("expected qty 3, got %d", got)
	}
	if c.SetQuantity("99", 2) {
		t.Fatalf("expected no match for unknown item")
	}
}

func TestSetLineQuantityTargetsOneSelection(t *testing.T) {
	c := &Cart{}
	chicken, _ := NewLine(noodleItem(), Selection{OptionName: "Chicken"})
	beef, _ := NewLine(noodleItem(), Selection{OptionName: "Beef"})
	c.Add(chicken)
	c.Add(beef)

	found, ok := c.FindLine("2", "Beef", nil, "")
	if !ok {
		t.Fatalf("expected to find the beef line")
	}
	if !c.SetLineQuantity(found.Identity(), 4) {
		t.Fatalf("expected the beef line to update")
	}

	lines := c.Lines()
	if lines[0].Qty != 1 || lines[1].Qty != 4 {
		t.Fatalf("expected quantities 1 and 4, got %d and %d", lines[0].Qty, lines[1].Qty)
	}

	if !c.SetLineQuantity(found.Identity(), 0) {
		t.Fatalf("expected the beef line to be removed")
	}
	if c.Len() != 1 {
		t.Fatalf("expected one line left, got %d", c.Len())
	}
}

func TestTotalIsExactSumOfLines(t *testing.T) {
	c := &Cart{}
	for _, sel := range []Selection{
		{NoteNames: []string{"Extra"}, Qty: 3},
		{Qty: 2},
	} {
		line, err := NewLine(burgerItem(), sel)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c.Add(line)
	}

	var expected float64
	for _, l := range c.Lines() {
		expected += l.UnitPrice * float64(l.Qty)
	}
	if got := c.Total(); got != expected {
		t.Fatalf("expected exact total %v, got %v", expected, got)
	}
}

func TestPayloadBuildsSubmissionRequest(t *testing.T) {
	c := &Cart{}
	table, note := "A1", "no rush"
	c.SetDetails(&table, &note)

	line, err := NewLine(noodleItem(), Selection{OptionName: "Chicken", NoteNames: []string{"Spicy"}, CustomerName: "Ann", Qty: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Add(line)

	req, err := c.Payload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.TableID != "A1" {
		t.Fatalf("expected tableId A1, got %s", req.TableID)
	}
	if req.Notes == nil || *req.Notes != "no rush" {
		t.Fatalf("expected order note to carry over")
	}
	if len(req.Items) != 1 {
		t.Fatalf("expected one payload item, got %d", len(req.Items))
	}

	item := req.Items[0]
	if item.MenuItemID != 2 || item.Quantity != 2 {
		t.Fatalf("unexpected item identity: %+v", item)
	}
	if item.ChosenOption == nil || *item.ChosenOption != "Chicken" {
		t.Fatalf("expected bare option name, got %v", item.ChosenOption)
	}
	if len(item.Notes) != 1 || item.Notes[0] != "Spicy" {
		t.Fatalf("expected bare note names, got %v", item.Notes)
	}
	if item.CustomerName == nil || *item.CustomerName != "Ann" {
		t.Fatalf("expected customer name, got %v", item.CustomerName)
	}
	if req.TotalPrice != 17.98 {
		t.Fatalf("expected rounded total 17.98, got %v", req.TotalPrice)
	}
}

func TestPayloadRejectsNonNumericItemID(t *testing.T) {
	c := &Cart{}
	item := burgerItem()
	item.ItemID = "abc"

	line, err := NewLine(item, Selection{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Add(line)

	if _, err := c.Payload(); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}

func TestPayloadRejectsEmptyCart(t *testing.T) {
	c := &Cart{}
	if _, err := c.Payload(); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestSetDetailsLeavesNilFieldsUnchanged(t *testing.T) {
	c := &Cart{}
	table, note := "A1", "no rush"
	c.SetDetails(&table, &note)

	newNote := "extra spicy"
	c.SetDetails(nil, &newNote)

	gotTable, gotNote := c.Details()
	if gotTable != "A1" || gotNote != "extra spicy" {
		t.Fatalf("expected (A1, extra spicy), got (%s, %s)", gotTable, gotNote)
	}
}

func TestClearDropsLinesAndNoteButKeepsTable(t *testing.T) {
	c := &Cart{}
	table, note := "A1", "extra spicy"
	c.SetDetails(&table, &note)
	line, _ := NewLine(burgerItem(), Selection{})
	c.Add(line)

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cart")
	}
	gotTable, gotNote := c.Details()
	if gotNote != "" {
		t.Fatalf("expected note cleared")
	}
	if gotTable != "A1" {
		t.Fatalf("expected table id to survive")
	}
}

func TestDetailsSafeUnderConcurrentUse(t *testing.T) {
	c := &Cart{}
	line, err := NewLine(burgerItem(), Selection{Qty: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Add(line)

	done := make(chan struct{})
	go func() {
		defer close(done)
		table := "A1"
		for i := 0; i < 200; i++ {
			c.SetDetails(&table, nil)
		}
	}()

	for i := 0; i < 200; i++ {
		if _, err := c.Payload(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c.Details()
	}
	<-done
}
