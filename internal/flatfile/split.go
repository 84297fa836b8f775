package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"asn856/internal/logging"
)

const headerPrefix = `"H"~`

// Block is the ordered lines of one shipment, without line terminators.
// StartLine is the 1-based input line of the block's header. Unterminated is
// set when the block's last line ended the input without a newline.
type Block struct {
	StartLine    int
	Lines        []string
	Unterminated bool
}

// Text re-joins the block as it appeared in the input.
func (b Block) Text() string {
	var sb strings.Builder
	for i, line := range b.Lines {
		sb.WriteString(line)
		if i < len(b.Lines)-1 || !b.Unterminated {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Join concatenates the text of every block.
func Join(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(b.Text())
	}
	return sb.String()
}

// Splitter cuts an export into shipment blocks for one trading partner.
type Splitter struct {
	partnerPrefix string
	logger        *slog.Logger
}

// NewSplitter returns a Splitter for the given trading-partner literal.
func NewSplitter(partnerID string, logger *slog.Logger) (*Splitter, error) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return nil, errors.New("trading partner id required")
	}
	return &Splitter{
		partnerPrefix: headerPrefix + `"` + partnerID + `"`,
		logger:        logging.NewComponentLogger(logger, "splitter"),
	}, nil
}

// SplitString is Split over an in-memory export.
func (s *Splitter) SplitString(text string) []Block {
	blocks, _ := s.Split(strings.NewReader(text))
	return blocks
}

// Split reads the export and returns the shipment blocks in input order.
//
// Lines outside a partner block are discarded. A header line for any other
// partner closes the open block; a partner header closes the open block and
// starts the next one. End of input closes the open block.
func (s *Splitter) Split(r io.Reader) ([]Block, error) {
	reader := bufio.NewReader(r)
	var (
		blocks    []Block
		current   *Block
		lineNo    int
		discarded int
	)
	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
			current = nil
		}
	}

	for {
		raw, err := reader.ReadString('\n')
		if raw != "" {
			lineNo++
			line, terminated := strings.CutSuffix(raw, "\n")
			switch {
			case strings.HasPrefix(line, s.partnerPrefix):
				flush()
				current = &Block{StartLine: lineNo, Lines: []string{line}}
			case strings.HasPrefix(line, headerPrefix):
				if current != nil {
					logging.WarnWithContext(s.logger, "foreign header closed shipment block", "foreign_header_dropped",
						logging.Int("line", lineNo),
						logging.Int("block_start", current.StartLine),
						logging.String(logging.FieldImpact, "header and following lines skipped until the next partner header"),
						logging.String(logging.FieldErrorHint, "review the export for a malformed or misrouted header"),
					)
				}
				flush()
				discarded++
			case current != nil:
				current.Lines = append(current.Lines, line)
			default:
				discarded++
			}
			if !terminated && current != nil {
				current.Unterminated = true
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return blocks, fmt.Errorf("read export line %d: %w", lineNo+1, err)
		}
	}
	flush()

	s.logger.Debug("export split",
		logging.Int("lines", lineNo),
		logging.Int("shipments", len(blocks)),
		logging.Int("discarded_lines", discarded),
	)
	return blocks, nil
}
