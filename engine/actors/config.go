package actors

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"askora/engine/library"
	"askora/ledger"
	"askora/market"
)

const ConfigFile = "config.yaml"

// InitConfig sets up our Viper config object
func InitConfig(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	config.SetDefault("rootDir", homeDir+"/askora/")
	config.SetConfigType("yaml")
	config.SetConfigFile(config.GetString("rootDir") + ConfigFile)
	err = config.ReadInConfig()
	if err != nil {
		library.LogCLI(err.Error(), 4)
	}
	SetDefaults(config)
	// Create our working directory and config file if not exist
	initRootDir(config)
	if err := library.Touch(config.GetString("rootDir") + ConfigFile); err != nil {
		library.LogCLI(err.Error(), 0)
	}
	err = config.WriteConfig()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
}

// SetDefaults registers a default for every key the engine reads.
func SetDefaults(config *viper.Viper) {
	p := market.DefaultPolicy()
	f := ledger.DefaultFees()
	config.SetDefault("logLevel", 4)
	config.SetDefault("flatFileDir", "data/")
	config.SetDefault("ledgerFile", "ledger.db")
	config.SetDefault("maxRounds", ledger.DefaultMaxRounds)
	// treasury is minted into each simulated wallet the first time it is used.
	config.SetDefault("treasury", "1000")
	config.SetDefault("rootDeposit", "1")

	config.SetDefault("policy.feeNumerator", p.FeeNumerator)
	config.SetDefault("policy.feeDenominator", p.FeeDenominator)
	config.SetDefault("policy.questionReserve", p.QuestionReserve.String())
	config.SetDefault("policy.accountReserve", p.AccountReserve.String())
	config.SetDefault("policy.rootReserve", p.RootReserve.String())
	config.SetDefault("policy.refReserve", p.RefReserve.String())
	config.SetDefault("policy.processingReserve", p.ProcessingReserve.String())
	config.SetDefault("policy.notificationAmount", p.NotificationAmount.String())
	config.SetDefault("policy.expirationWindow", (time.Duration(p.ExpirationWindow) * time.Second).String())

	config.SetDefault("fees.gas", f.Gas.String())
	config.SetDefault("fees.storagePerByteYear", f.StoragePerByteYear.String())
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.Mkdir(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 0)
		}
	}
}

// PolicyFromConfig reads the market policy. The result is validated.
func PolicyFromConfig(config *viper.Viper) (p market.Policy, err error) {
	p.FeeNumerator = config.GetUint64("policy.feeNumerator")
	p.FeeDenominator = config.GetUint64("policy.feeDenominator")
	for key, into := range map[string]*ledger.Amount{
		"policy.questionReserve":    &p.QuestionReserve,
		"policy.accountReserve":     &p.AccountReserve,
		"policy.rootReserve":        &p.RootReserve,
		"policy.refReserve":         &p.RefReserve,
		"policy.processingReserve":  &p.ProcessingReserve,
		"policy.notificationAmount": &p.NotificationAmount,
	} {
		if *into, err = AmountFromConfig(config, key); err != nil {
			return p, err
		}
	}
	p.ExpirationWindow = int64(config.GetDuration("policy.expirationWindow") / time.Second)
	return p, errors.Wrap(p.Validate(), "policy")
}

func FeesFromConfig(config *viper.Viper) (f ledger.Fees, err error) {
	if f.Gas, err = AmountFromConfig(config, "fees.gas"); err != nil {
		return f, err
	}
	f.StoragePerByteYear, err = AmountFromConfig(config, "fees.storagePerByteYear")
	return f, err
}

// AmountFromConfig reads a decimal coin value such as "0.03".
func AmountFromConfig(config *viper.Viper, key string) (ledger.Amount, error) {
	a, err := ledger.ParseAmount(config.GetString(key))
	return a, errors.Wrapf(err, "config key %s", key)
}

var conf *viper.Viper

func MakeOrGetConfig() *viper.Viper {
	return conf
}

func SetConfig(config *viper.Viper) {
	conf = config
}
