package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/VinceNguyen000/blockchain-assignment1/ledger"
)

func renderBanner() {
	_ = pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("P", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("o", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("W ", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Ledger", pterm.FgDarkGray.ToStyle()),
	).Render()
}

// shortFingerprint keeps the head and tail of a fingerprint for table cells.
func shortFingerprint(fp string) string {
	if len(fp) <= 16 {
		return fp
	}
	return fp[:8] + "…" + fp[len(fp)-8:]
}

func describeEntry(e Entry) string {
	if e.Memo != "" {
		return e.Memo
	}
	parts := make([]string, 0, len(e.Transfers))
	for _, t := range e.Transfers {
		parts = append(parts, fmt.Sprintf("%s→%s %d", t.From, t.To, t.Amount))
	}
	return strings.Join(parts, ", ")
}

func renderChain(chain *ledger.Chain[Entry]) {
	data := pterm.TableData{{"#", "Timestamp", "Payload", "Previous", "Nonce", "Fingerprint"}}
	for _, b := range chain.Blocks() {
		data = append(data, []string{
			strconv.Itoa(b.Index),
			strconv.FormatInt(b.Timestamp, 10),
			describeEntry(b.Payload),
			shortFingerprint(b.PrevFingerprint),
			strconv.FormatUint(b.Nonce, 10),
			pterm.LightGreen(shortFingerprint(b.Fingerprint)),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}

func renderDump(chain *ledger.Chain[Entry]) error {
	dump, err := json.MarshalIndent(chain.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to dump chain: %w", err)
	}
	pterm.DefaultBox.WithTitle(pterm.LightYellow("|DUMP|")).WithTitleTopCenter().Println(string(dump))
	return nil
}

func renderValidity(question string, chain *ledger.Chain[Entry]) {
	err := chain.Verify()
	if err == nil {
		pterm.Success.Printfln("%s %s", question, pterm.LightGreen("true"))
		return
	}
	pterm.Error.Printfln("%s %s", question, pterm.LightRed("false"))

	var invalid *ledger.InvalidBlockError
	if errors.As(err, &invalid) {
		pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
		pbox.WithTitle(pterm.LightRed("|TAMPERED|")).WithTitleTopCenter().
			Println(fmt.Sprintf("Block #%d\n%v", invalid.Index, invalid.Err))
	}
}
