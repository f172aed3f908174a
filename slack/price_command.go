package greekbotslack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/quantops/greekbot/bsm"
)

type PriceHandler struct{}

func NewPriceHandler() *PriceHandler {
	return &PriceHandler{}
}

func (h *PriceHandler) HandleCommand(evt *socketmode.Event, client *socketmode.Client) error {
	data := evt.Data.(slack.SlashCommand)
	args := strings.Fields(data.Text)

	if len(args) != 5 {
		_, _, err := client.PostMessage(data.ChannelID,
			slack.MsgOptionText("Invalid number of arguments. Usage: /price <spot> <strike> <years> <rate> <vol>", false))
		return err
	}

	spot, _ := strconv.ParseFloat(args[0], 64)
	strike, _ := strconv.ParseFloat(args[1], 64)
	years, _ := strconv.ParseFloat(args[2], 64)
	rate, _ := strconv.ParseFloat(args[3], 64)
	vol, _ := strconv.ParseFloat(args[4], 64)

	model, err := bsm.New(spot, strike, years, rate, vol)
	if err != nil {
		_, _, perr := client.PostMessage(data.ChannelID,
			slack.MsgOptionText(fmt.Sprintf("Rejected: %s", err), false))
		return perr
	}

	_, _, err = client.PostMessage(data.ChannelID,
		slack.MsgOptionText(formatValuation(model), false))
	return err
}

func formatValuation(model bsm.Model) string {
	var b strings.Builder

	fmt.Fprintf(&b, "S=%.4f K=%.4f T=%.4f r=%.4f sigma=%.4f\n",
		model.Spot(), model.Strike(), model.TimeToExpiry(), model.RiskFreeRate(), model.Volatility())
	fmt.Fprintf(&b, "Call: %.4f (intrinsic %.4f, extrinsic %.4f)\n",
		model.CallPrice(), model.CallIntrinsic(), model.CallExtrinsic())
	fmt.Fprintf(&b, "Put:  %.4f (intrinsic %.4f, extrinsic %.4f)\n",
		model.PutPrice(), model.PutIntrinsic(), model.PutExtrinsic())

	greeks, err := model.AllGreeks()
	if err != nil {
		b.WriteString("Greeks unavailable: contract is at expiry")
		return b.String()
	}

	fmt.Fprintf(&b, "Delta: call %.4f / put %.4f\n", greeks.CallDelta, greeks.PutDelta)
	fmt.Fprintf(&b, "Gamma: %.6f\n", greeks.Gamma)
	fmt.Fprintf(&b, "Theta: call %.4f / put %.4f\n", greeks.CallTheta, greeks.PutTheta)
	fmt.Fprintf(&b, "Vega: %.4f\n", greeks.Vega)
	fmt.Fprintf(&b, "Rho: call %.4f / put %.4f\n", greeks.CallRho, greeks.PutRho)

	if up, down, err := model.ShadowGamma(bsm.DefaultPriceBump, bsm.DefaultVolBump); err == nil {
		fmt.Fprintf(&b, "Shadow Gamma: up %.6f / down %.6f\n", up, down)
	}
	if skew, err := model.SkewGamma(bsm.DefaultVolStep); err == nil {
		fmt.Fprintf(&b, "Skew Gamma: %.4f", skew)
	}

	return b.String()
}
