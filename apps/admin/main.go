package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/user"
	logsvc "github.com/trezcool/huda/services/logger"
	"github.com/trezcool/huda/storage/sheets"
)

func main() {
	conf := core.NewConfig()
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	store := sheets.NewStoreFromConfig(conf, logger)
	cli := commandLine{
		store:  store,
		usrSvc: user.NewService(store, validate),
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", describe(err, translator))
		}
		os.Exit(1)
	}
}

// describe renders validation errors field by field.
func describe(err error, translator ut.Translator) string {
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		var msg string
		for _, vErr := range vErrs {
			msg += "\n  " + vErr.Field() + ": " + vErr.Translate(translator)
		}
		return msg
	}
	return err.Error()
}
