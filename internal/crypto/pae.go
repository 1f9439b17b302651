// Copyright 2026 The in-toto Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crypto

import "strconv"

// ComputePAE computes the DSSE Pre-Authentication Encoding:
// "DSSEv1" SP LEN(type) SP type SP LEN(payload) SP payload, with LEN as
// ASCII decimal. Signatures in a DSSE envelope are computed over these
// bytes rather than the raw payload.
func ComputePAE(payloadType string, payload []byte) []byte {
	pae := []byte("DSSEv1 ")
	pae = strconv.AppendInt(pae, int64(len(payloadType)), 10)
	pae = append(pae, ' ')
	pae = append(pae, payloadType...)
	pae = append(pae, ' ')
	pae = strconv.AppendInt(pae, int64(len(payload)), 10)
	pae = append(pae, ' ')
	pae = append(pae, payload...)
	return pae
}
