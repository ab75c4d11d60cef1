package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kairos-io/archstrap/internal/constants"
	"github.com/kairos-io/archstrap/internal/utils"
	"github.com/kairos-io/archstrap/pkg/schema"
	"github.com/samber/lo"
)

// Prompter asks the operator for the installation parameters. Every question
// is repeated until the answer is valid; end of input aborts.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// ask prints question until valid accepts the answer.
func (p *Prompter) ask(question string, valid func(string) bool) (string, error) {
	for {
		if _, err := fmt.Fprint(p.out, question); err != nil {
			return "", err
		}
		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil {
			if errors.Is(err, io.EOF) {
				// a last line without newline is still an answer
				if answer != "" && valid(answer) {
					return answer, nil
				}
				return "", constants.ErrUserAbort
			}
			return "", err
		}
		if valid(answer) {
			return answer, nil
		}
		utils.Log.Debug().Str("answer", answer).Msg("Invalid answer")
	}
}

// ConfirmInstallation returns constants.ErrUserAbort unless the operator answers yes.
func (p *Prompter) ConfirmInstallation() error {
	answer, err := p.ask(installConfirm, func(s string) bool {
		return lo.Contains([]string{"y", "Y", "n", "N"}, s)
	})
	if err != nil {
		return err
	}
	if answer == "n" || answer == "N" {
		return constants.ErrUserAbort
	}
	return nil
}

// SelectInstallDisk asks for one of disks. descriptions, keyed by disk path,
// may be nil.
func (p *Prompter) SelectInstallDisk(disks []schema.Disk, descriptions map[string]string) (schema.Disk, error) {
	if len(disks) == 0 {
		return schema.Disk{}, errors.New("no installable disk found")
	}
	choices := lo.Map(disks, func(d schema.Disk, _ int) string {
		if desc, ok := descriptions[d.Path()]; ok {
			return fmt.Sprintf(" -> %s (%s)", d, desc)
		}
		return fmt.Sprintf(" -> %s", d)
	})
	byPath := lo.KeyBy(disks, func(d schema.Disk) string { return d.Path() })

	answer, err := p.ask(fmt.Sprintf(installDisk, strings.Join(choices, "\n")), func(s string) bool {
		_, ok := byPath[s]
		return ok
	})
	if err != nil {
		return schema.Disk{}, err
	}
	return byPath[answer], nil
}

// SelectProcessorBrand asks for the cpu vendor; "other" selects no microcode.
func (p *Prompter) SelectProcessorBrand() (schema.ProcessorBrand, error) {
	choices := append(lo.Map(schema.ProcessorBrands(), func(b schema.ProcessorBrand, _ int) string {
		return b.String()
	}), schema.NoProcessorBrandChoice)

	answer, err := p.ask(fmt.Sprintf(processorBrand, strings.Join(choices, ", ")), func(s string) bool {
		_, ok := schema.ParseProcessorBrand(s)
		return ok
	})
	if err != nil {
		return schema.NoProcessorBrand, err
	}
	brand, _ := schema.ParseProcessorBrand(answer)
	return brand, nil
}

// GatherInstallParameters asks for disk and vendor and freezes them with the
// probed memory size.
func (p *Prompter) GatherInstallParameters(disks []schema.Disk, descriptions map[string]string, memory schema.ByteCount) (schema.BootstrapParameters, error) {
	disk, err := p.SelectInstallDisk(disks, descriptions)
	if err != nil {
		return schema.BootstrapParameters{}, err
	}
	brand, err := p.SelectProcessorBrand()
	if err != nil {
		return schema.BootstrapParameters{}, err
	}
	return schema.NewBootstrapParameters(disk, brand, memory), nil
}
