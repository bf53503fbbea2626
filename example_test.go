// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal_test

import (
	"errors"
	"fmt"

	"code.hybscloud.com/universal"
)

var errInsufficientFunds = errors.New("insufficient funds")

func ExampleSubmit() {
	u := universal.New()
	balance := universal.NewCell(100)

	withdraw := func(amount int) universal.Operation[int] {
		return func(tx *universal.Tx) (int, error) {
			b, err := balance.Read(tx)
			if err != nil {
				return 0, err
			}
			if b < amount {
				return 0, errInsufficientFunds
			}
			balance.Write(tx, b-amount)
			return b - amount, nil
		}
	}

	left, err := universal.Submit(u, withdraw(30))
	fmt.Println(left, err)

	_, err = universal.Submit(u, withdraw(500))
	fmt.Println(err == errInsufficientFunds)
	// Output:
	// 70 <nil>
	// true
}
